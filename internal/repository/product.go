package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/stash/internal/model"
	"github.com/tuanvumaihuynh/stash/internal/storage/db"
)

// ErrProductInUse is returned when a product still owns stock lots.
var ErrProductInUse = errors.New("product in use")

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	CreateProduct(ctx context.Context, product model.Product) (model.Product, error)
	UpdateProduct(ctx context.Context, product model.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

const selectProductColumns = `
	SELECT id, name, picture_url, category_id, parent_product_id, default_location, created_at, updated_at
	FROM products`

func (r productRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, selectProductColumns+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("collect products: %w", err)
	}

	return products, nil
}

func (r productRepository) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	rows, err := r.db.Query(ctx, selectProductColumns+` WHERE id = $1`, id)
	if err != nil {
		return model.Product{}, fmt.Errorf("query product: %w", err)
	}

	product, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, ErrNotFound
		}
		return model.Product{}, fmt.Errorf("collect product: %w", err)
	}

	return product, nil
}

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO products (name, picture_url, category_id, parent_product_id, default_location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		product.Name,
		product.PictureURL,
		product.CategoryID,
		product.ParentProductID,
		product.DefaultLocation,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(&product.ID)
	if err != nil {
		return model.Product{}, fmt.Errorf("insert product: %w", err)
	}

	return product, nil
}

func (r productRepository) UpdateProduct(ctx context.Context, product model.Product) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET
			name              = $2,
			picture_url       = $3,
			category_id       = $4,
			parent_product_id = $5,
			default_location  = $6,
			updated_at        = $7
		WHERE id = $1`,
		product.ID,
		product.Name,
		product.PictureURL,
		product.CategoryID,
		product.ParentProductID,
		product.DefaultLocation,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r productRepository) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrProductInUse
		}
		return fmt.Errorf("delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanProduct(row pgx.CollectableRow) (model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.PictureURL,
		&p.CategoryID,
		&p.ParentProductID,
		&p.DefaultLocation,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
