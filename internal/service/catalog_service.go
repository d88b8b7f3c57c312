package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"go-storefront-api/internal/cache"
	"go-storefront-api/internal/media"
	"go-storefront-api/internal/model"
	"go-storefront-api/internal/repository"
	"go-storefront-api/internal/ws"
	"go-storefront-api/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrImageNotFound   = errors.New("image not found")
	ErrNameTaken       = errors.New("product name already exists")
	ErrBadImageFormat  = errors.New("unsupported image format")
	ErrInvalidProduct  = errors.New("invalid product")
)

const (
	catalogCacheKey = "catalog:productos"
	catalogCacheTTL = 5 * time.Minute
)

type CatalogService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	CreateProduct(ctx context.Context, req *model.Product) error
	UpdateProduct(ctx context.Context, id uint, req *model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	AttachImage(ctx context.Context, productID uint, filename, contentType string, file io.Reader) (*model.Image, error)
	DeleteImage(ctx context.Context, imageID uint) error
}

type catalogService struct {
	productRepo repository.ProductRepository
	imageRepo   repository.ImageRepository
	db          *gorm.DB
	storage     media.Storage
	cache       cache.Cache
	hub         *ws.Hub
}

func NewCatalogService(
	pRepo repository.ProductRepository,
	iRepo repository.ImageRepository,
	db *gorm.DB,
	storage media.Storage,
	c cache.Cache,
	hub *ws.Hub,
) CatalogService {
	return &catalogService{
		productRepo: pRepo,
		imageRepo:   iRepo,
		db:          db,
		storage:     storage,
		cache:       c,
		hub:         hub,
	}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if s.cache.Get(ctx, catalogCacheKey, &products) {
		return products, nil
	}

	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, catalogCacheKey, products, catalogCacheTTL); err != nil {
		log.Printf("Warning: failed to cache catalog: %v", err)
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, req *model.Product) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("%w: field '%s' failed on tag '%s'",
			ErrInvalidProduct, firstErr.FailedField, firstErr.Tag)
	}

	// Name is the legacy alternate lookup key, keep it unique. Only a
	// confirmed miss clears the name; a store failure must surface.
	if _, err := s.productRepo.FindByName(req.Name); err == nil {
		return ErrNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	s.invalidateCatalog(ctx)
	s.hub.BroadcastStockEvent(ws.StockEvent{
		Type:      "stock_update",
		Action:    "product_created",
		ProductID: req.ID,
		Name:      req.Name,
		Stock:     req.Stock,
		Message:   fmt.Sprintf("product '%s' created", req.Name),
	})
	return nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uint, req *model.Product) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'",
			ErrInvalidProduct, firstErr.FailedField, firstErr.Tag)
	}

	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = req.Price
	existing.Stock = req.Stock
	existing.Category = req.Category

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}

	s.invalidateCatalog(ctx)
	s.hub.BroadcastStockEvent(ws.StockEvent{
		Type:      "stock_update",
		Action:    "product_updated",
		ProductID: existing.ID,
		Name:      existing.Name,
		Stock:     existing.Stock,
		Message:   fmt.Sprintf("product '%s' updated", existing.Name),
	})
	return existing, nil
}

// DeleteProduct removes the product, its image rows, and the remote
// media objects. The database rows go first in one transaction; remote
// deletes run after commit so a media-host hiccup cannot leave the
// catalog pointing at a half-deleted product.
func (s *catalogService) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.imageRepo.DeleteByProduct(tx, product.ID); err != nil {
			return err
		}
		return s.productRepo.Delete(tx, product.ID)
	})
	if err != nil {
		return err
	}

	for _, img := range product.Images {
		if img.StorageKey == "" {
			continue
		}
		if err := s.storage.Delete(ctx, img.StorageKey); err != nil {
			log.Printf("Warning: failed to delete media object %s: %v", img.StorageKey, err)
		}
	}

	s.invalidateCatalog(ctx)
	s.hub.BroadcastStockEvent(ws.StockEvent{
		Type:      "stock_update",
		Action:    "product_deleted",
		ProductID: product.ID,
		Name:      product.Name,
		Message:   fmt.Sprintf("product '%s' deleted", product.Name),
	})
	return nil
}

func (s *catalogService) AttachImage(ctx context.Context, productID uint, filename, contentType string, file io.Reader) (*model.Image, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" {
		return nil, ErrBadImageFormat
	}

	key := fmt.Sprintf("productos/%d/%s%s", product.ID, uuid.New().String(), ext)
	url, err := s.storage.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, err
	}

	position, err := s.imageRepo.NextPosition(product.ID)
	if err != nil {
		return nil, err
	}

	image := &model.Image{
		ProductID:  product.ID,
		URL:        url,
		StorageKey: key,
		Position:   position,
	}
	if err := s.imageRepo.Create(image); err != nil {
		// Orphaned upload, reclaim it
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			log.Printf("Warning: failed to clean up media object %s: %v", key, delErr)
		}
		return nil, err
	}

	s.invalidateCatalog(ctx)
	return image, nil
}

func (s *catalogService) DeleteImage(ctx context.Context, imageID uint) error {
	image, err := s.imageRepo.FindByID(imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return err
	}

	if err := s.imageRepo.Delete(s.db.WithContext(ctx), image.ID); err != nil {
		return err
	}

	if image.StorageKey != "" {
		if err := s.storage.Delete(ctx, image.StorageKey); err != nil {
			log.Printf("Warning: failed to delete media object %s: %v", image.StorageKey, err)
		}
	}

	s.invalidateCatalog(ctx)
	return nil
}

func (s *catalogService) invalidateCatalog(ctx context.Context) {
	if err := s.cache.Delete(ctx, catalogCacheKey); err != nil {
		log.Printf("Warning: failed to invalidate catalog cache: %v", err)
	}
}
