package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tuanvumaihuynh/stash/internal/apperr"
	"github.com/tuanvumaihuynh/stash/internal/model"
	"github.com/tuanvumaihuynh/stash/internal/repository"
)

type CreateProductParams struct {
	Name            string
	PictureURL      *string
	CategoryID      *int64
	ParentProductID *int64
	DefaultLocation *string
}

type UpdateProductParams struct {
	ID              int64
	Name            string
	PictureURL      *string
	CategoryID      *int64
	ParentProductID *int64
	DefaultLocation *string
}

type ProductService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type productService struct {
	productRepo       repository.ProductRepository
	categoryRepo      repository.CategoryRepository
	parentProductRepo repository.ParentProductRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	parentProductRepo repository.ParentProductRepository,
) ProductService {
	return &productService{
		productRepo:       productRepo,
		categoryRepo:      categoryRepo,
		parentProductRepo: parentProductRepo,
	}
}

func (s *productService) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("product repository list products: %w", err)
	}

	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Product{}, apperr.ProductNotFoundErr.WrapParent(fmt.Errorf("product %d", id))
		}
		return model.Product{}, fmt.Errorf("product repository get product: %w", err)
	}

	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	if err := s.checkReferences(ctx, params.CategoryID, params.ParentProductID); err != nil {
		return model.Product{}, err
	}

	now := time.Now()
	product, err := s.productRepo.CreateProduct(ctx, model.Product{
		Name:            params.Name,
		PictureURL:      params.PictureURL,
		CategoryID:      params.CategoryID,
		ParentProductID: params.ParentProductID,
		DefaultLocation: params.DefaultLocation,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository create product: %w", err)
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error) {
	product, err := s.GetProduct(ctx, params.ID)
	if err != nil {
		return model.Product{}, err
	}

	if err := s.checkReferences(ctx, params.CategoryID, params.ParentProductID); err != nil {
		return model.Product{}, err
	}

	product.Name = params.Name
	product.PictureURL = params.PictureURL
	product.CategoryID = params.CategoryID
	product.ParentProductID = params.ParentProductID
	product.DefaultLocation = params.DefaultLocation
	product.UpdatedAt = time.Now()

	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Product{}, apperr.ProductNotFoundErr.WrapParent(fmt.Errorf("product %d", params.ID))
		}
		return model.Product{}, fmt.Errorf("product repository update product: %w", err)
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return apperr.ProductNotFoundErr.WrapParent(fmt.Errorf("product %d", id))
		case errors.Is(err, repository.ErrProductInUse):
			return apperr.ProductInUseErr.WrapParent(err)
		default:
			return fmt.Errorf("product repository delete product: %w", err)
		}
	}

	return nil
}

func (s *productService) checkReferences(ctx context.Context, categoryID, parentProductID *int64) error {
	if categoryID != nil {
		if _, err := s.categoryRepo.GetCategory(ctx, *categoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.InvalidCategoryReferenceErr.WrapParent(fmt.Errorf("category %d", *categoryID))
			}
			return fmt.Errorf("category repository get category: %w", err)
		}
	}

	if parentProductID != nil {
		if _, err := s.parentProductRepo.GetParentProduct(ctx, *parentProductID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.InvalidParentProductReferenceErr.WrapParent(fmt.Errorf("parent product %d", *parentProductID))
			}
			return fmt.Errorf("parent product repository get parent product: %w", err)
		}
	}

	return nil
}
