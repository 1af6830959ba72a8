package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/stash/internal/model"
	"github.com/tuanvumaihuynh/stash/internal/storage/db"
)

type CategoryRepository interface {
	WithDB(db db.DB) CategoryRepository
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id int64) (model.Category, error)
	CreateCategory(ctx context.Context, category model.Category) (model.Category, error)
	UpdateCategory(ctx context.Context, category model.Category) error
	DeleteCategory(ctx context.Context, id int64) error
}

type categoryRepository struct {
	db db.DB
}

func NewCategoryRepository(db db.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r categoryRepository) WithDB(db db.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r categoryRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at, updated_at FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}

	categories, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.Category])
	if err != nil {
		return nil, fmt.Errorf("collect categories: %w", err)
	}

	return categories, nil
}

func (r categoryRepository) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at, updated_at FROM categories WHERE id = $1`, id)
	if err != nil {
		return model.Category{}, fmt.Errorf("query category: %w", err)
	}

	category, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[model.Category])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Category{}, ErrNotFound
		}
		return model.Category{}, fmt.Errorf("collect category: %w", err)
	}

	return category, nil
}

func (r categoryRepository) CreateCategory(ctx context.Context, category model.Category) (model.Category, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO categories (name, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id`,
		category.Name, category.CreatedAt, category.UpdatedAt,
	).Scan(&category.ID)
	if err != nil {
		return model.Category{}, fmt.Errorf("insert category: %w", err)
	}

	return category, nil
}

func (r categoryRepository) UpdateCategory(ctx context.Context, category model.Category) error {
	tag, err := r.db.Exec(ctx, `UPDATE categories SET name = $2, updated_at = $3 WHERE id = $1`,
		category.ID, category.Name, category.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r categoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

type ParentProductRepository interface {
	WithDB(db db.DB) ParentProductRepository
	ListParentProducts(ctx context.Context) ([]model.ParentProduct, error)
	GetParentProduct(ctx context.Context, id int64) (model.ParentProduct, error)
	CreateParentProduct(ctx context.Context, parentProduct model.ParentProduct) (model.ParentProduct, error)
	UpdateParentProduct(ctx context.Context, parentProduct model.ParentProduct) error
	DeleteParentProduct(ctx context.Context, id int64) error
}

type parentProductRepository struct {
	db db.DB
}

func NewParentProductRepository(db db.DB) ParentProductRepository {
	return &parentProductRepository{db: db}
}

func (r parentProductRepository) WithDB(db db.DB) ParentProductRepository {
	return &parentProductRepository{db: db}
}

func (r parentProductRepository) ListParentProducts(ctx context.Context) ([]model.ParentProduct, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at, updated_at FROM parent_products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query parent products: %w", err)
	}

	parentProducts, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.ParentProduct])
	if err != nil {
		return nil, fmt.Errorf("collect parent products: %w", err)
	}

	return parentProducts, nil
}

func (r parentProductRepository) GetParentProduct(ctx context.Context, id int64) (model.ParentProduct, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at, updated_at FROM parent_products WHERE id = $1`, id)
	if err != nil {
		return model.ParentProduct{}, fmt.Errorf("query parent product: %w", err)
	}

	parentProduct, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[model.ParentProduct])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ParentProduct{}, ErrNotFound
		}
		return model.ParentProduct{}, fmt.Errorf("collect parent product: %w", err)
	}

	return parentProduct, nil
}

func (r parentProductRepository) CreateParentProduct(ctx context.Context, parentProduct model.ParentProduct) (model.ParentProduct, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO parent_products (name, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id`,
		parentProduct.Name, parentProduct.CreatedAt, parentProduct.UpdatedAt,
	).Scan(&parentProduct.ID)
	if err != nil {
		return model.ParentProduct{}, fmt.Errorf("insert parent product: %w", err)
	}

	return parentProduct, nil
}

func (r parentProductRepository) UpdateParentProduct(ctx context.Context, parentProduct model.ParentProduct) error {
	tag, err := r.db.Exec(ctx, `UPDATE parent_products SET name = $2, updated_at = $3 WHERE id = $1`,
		parentProduct.ID, parentProduct.Name, parentProduct.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update parent product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r parentProductRepository) DeleteParentProduct(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM parent_products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete parent product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

type LocationRepository interface {
	WithDB(db db.DB) LocationRepository
	ListLocations(ctx context.Context) ([]model.Location, error)
	GetLocation(ctx context.Context, id int64) (model.Location, error)
	CreateLocation(ctx context.Context, location model.Location) (model.Location, error)
	UpdateLocation(ctx context.Context, location model.Location) error
	DeleteLocation(ctx context.Context, id int64) error
}

type locationRepository struct {
	db db.DB
}

func NewLocationRepository(db db.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r locationRepository) WithDB(db db.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r locationRepository) ListLocations(ctx context.Context) ([]model.Location, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, created_at, updated_at FROM locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}

	locations, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.Location])
	if err != nil {
		return nil, fmt.Errorf("collect locations: %w", err)
	}

	return locations, nil
}

func (r locationRepository) GetLocation(ctx context.Context, id int64) (model.Location, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, created_at, updated_at FROM locations WHERE id = $1`, id)
	if err != nil {
		return model.Location{}, fmt.Errorf("query location: %w", err)
	}

	location, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[model.Location])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Location{}, ErrNotFound
		}
		return model.Location{}, fmt.Errorf("collect location: %w", err)
	}

	return location, nil
}

func (r locationRepository) CreateLocation(ctx context.Context, location model.Location) (model.Location, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO locations (name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		location.Name, location.Description, location.CreatedAt, location.UpdatedAt,
	).Scan(&location.ID)
	if err != nil {
		return model.Location{}, fmt.Errorf("insert location: %w", err)
	}

	return location, nil
}

func (r locationRepository) UpdateLocation(ctx context.Context, location model.Location) error {
	tag, err := r.db.Exec(ctx, `UPDATE locations SET name = $2, description = $3, updated_at = $4 WHERE id = $1`,
		location.ID, location.Name, location.Description, location.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r locationRepository) DeleteLocation(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
