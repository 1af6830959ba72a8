package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tuanvumaihuynh/stash/internal/apperr"
	"github.com/tuanvumaihuynh/stash/internal/model"
	"github.com/tuanvumaihuynh/stash/internal/repository"
	"github.com/tuanvumaihuynh/stash/pkg/zerror"
)

// notFoundAs turns a repository miss into the given application error.
func notFoundAs(err error, notFound zerror.ZError, format string, args ...any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound.WrapParent(fmt.Errorf(format, args...))
	}
	return err
}

type CategoryService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id int64) (model.Category, error)
	CreateCategory(ctx context.Context, name string) (model.Category, error)
	UpdateCategory(ctx context.Context, id int64, name string) (model.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("category repository list categories: %w", err)
	}

	return categories, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	category, err := s.categoryRepo.GetCategory(ctx, id)
	if err != nil {
		return model.Category{}, notFoundAs(fmt.Errorf("category repository get category: %w", err),
			apperr.CategoryNotFoundErr, "category %d", id)
	}

	return category, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, name string) (model.Category, error) {
	now := time.Now()
	category, err := s.categoryRepo.CreateCategory(ctx, model.Category{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Category{}, fmt.Errorf("category repository create category: %w", err)
	}

	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id int64, name string) (model.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return model.Category{}, err
	}

	category.Name = name
	category.UpdatedAt = time.Now()

	if err := s.categoryRepo.UpdateCategory(ctx, category); err != nil {
		return model.Category{}, notFoundAs(fmt.Errorf("category repository update category: %w", err),
			apperr.CategoryNotFoundErr, "category %d", id)
	}

	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categoryRepo.DeleteCategory(ctx, id); err != nil {
		return notFoundAs(fmt.Errorf("category repository delete category: %w", err),
			apperr.CategoryNotFoundErr, "category %d", id)
	}

	return nil
}

type ParentProductService interface {
	ListParentProducts(ctx context.Context) ([]model.ParentProduct, error)
	GetParentProduct(ctx context.Context, id int64) (model.ParentProduct, error)
	CreateParentProduct(ctx context.Context, name string) (model.ParentProduct, error)
	UpdateParentProduct(ctx context.Context, id int64, name string) (model.ParentProduct, error)
	DeleteParentProduct(ctx context.Context, id int64) error
}

type parentProductService struct {
	parentProductRepo repository.ParentProductRepository
}

func NewParentProductService(parentProductRepo repository.ParentProductRepository) ParentProductService {
	return &parentProductService{parentProductRepo: parentProductRepo}
}

func (s *parentProductService) ListParentProducts(ctx context.Context) ([]model.ParentProduct, error) {
	parentProducts, err := s.parentProductRepo.ListParentProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("parent product repository list parent products: %w", err)
	}

	return parentProducts, nil
}

func (s *parentProductService) GetParentProduct(ctx context.Context, id int64) (model.ParentProduct, error) {
	parentProduct, err := s.parentProductRepo.GetParentProduct(ctx, id)
	if err != nil {
		return model.ParentProduct{}, notFoundAs(fmt.Errorf("parent product repository get parent product: %w", err),
			apperr.ParentProductNotFoundErr, "parent product %d", id)
	}

	return parentProduct, nil
}

func (s *parentProductService) CreateParentProduct(ctx context.Context, name string) (model.ParentProduct, error) {
	now := time.Now()
	parentProduct, err := s.parentProductRepo.CreateParentProduct(ctx, model.ParentProduct{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.ParentProduct{}, fmt.Errorf("parent product repository create parent product: %w", err)
	}

	return parentProduct, nil
}

func (s *parentProductService) UpdateParentProduct(ctx context.Context, id int64, name string) (model.ParentProduct, error) {
	parentProduct, err := s.GetParentProduct(ctx, id)
	if err != nil {
		return model.ParentProduct{}, err
	}

	parentProduct.Name = name
	parentProduct.UpdatedAt = time.Now()

	if err := s.parentProductRepo.UpdateParentProduct(ctx, parentProduct); err != nil {
		return model.ParentProduct{}, notFoundAs(fmt.Errorf("parent product repository update parent product: %w", err),
			apperr.ParentProductNotFoundErr, "parent product %d", id)
	}

	return parentProduct, nil
}

func (s *parentProductService) DeleteParentProduct(ctx context.Context, id int64) error {
	if err := s.parentProductRepo.DeleteParentProduct(ctx, id); err != nil {
		return notFoundAs(fmt.Errorf("parent product repository delete parent product: %w", err),
			apperr.ParentProductNotFoundErr, "parent product %d", id)
	}

	return nil
}

type CreateLocationParams struct {
	Name        string
	Description *string
}

type UpdateLocationParams struct {
	ID          int64
	Name        string
	Description *string
}

type LocationService interface {
	ListLocations(ctx context.Context) ([]model.Location, error)
	GetLocation(ctx context.Context, id int64) (model.Location, error)
	CreateLocation(ctx context.Context, params CreateLocationParams) (model.Location, error)
	UpdateLocation(ctx context.Context, params UpdateLocationParams) (model.Location, error)
	DeleteLocation(ctx context.Context, id int64) error
}

type locationService struct {
	locationRepo repository.LocationRepository
}

func NewLocationService(locationRepo repository.LocationRepository) LocationService {
	return &locationService{locationRepo: locationRepo}
}

func (s *locationService) ListLocations(ctx context.Context) ([]model.Location, error) {
	locations, err := s.locationRepo.ListLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("location repository list locations: %w", err)
	}

	return locations, nil
}

func (s *locationService) GetLocation(ctx context.Context, id int64) (model.Location, error) {
	location, err := s.locationRepo.GetLocation(ctx, id)
	if err != nil {
		return model.Location{}, notFoundAs(fmt.Errorf("location repository get location: %w", err),
			apperr.LocationNotFoundErr, "location %d", id)
	}

	return location, nil
}

func (s *locationService) CreateLocation(ctx context.Context, params CreateLocationParams) (model.Location, error) {
	now := time.Now()
	location, err := s.locationRepo.CreateLocation(ctx, model.Location{
		Name:        params.Name,
		Description: params.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Location{}, fmt.Errorf("location repository create location: %w", err)
	}

	return location, nil
}

func (s *locationService) UpdateLocation(ctx context.Context, params UpdateLocationParams) (model.Location, error) {
	location, err := s.GetLocation(ctx, params.ID)
	if err != nil {
		return model.Location{}, err
	}

	location.Name = params.Name
	location.Description = params.Description
	location.UpdatedAt = time.Now()

	if err := s.locationRepo.UpdateLocation(ctx, location); err != nil {
		return model.Location{}, notFoundAs(fmt.Errorf("location repository update location: %w", err),
			apperr.LocationNotFoundErr, "location %d", params.ID)
	}

	return location, nil
}

func (s *locationService) DeleteLocation(ctx context.Context, id int64) error {
	if err := s.locationRepo.DeleteLocation(ctx, id); err != nil {
		return notFoundAs(fmt.Errorf("location repository delete location: %w", err),
			apperr.LocationNotFoundErr, "location %d", id)
	}

	return nil
}
