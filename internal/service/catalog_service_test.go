package service_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"go-storefront-api/internal/cache"
	"go-storefront-api/internal/model"
	"go-storefront-api/internal/repository"
	"go-storefront-api/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeStorage struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
}

func (f *fakeStorage) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, key)
	return "https://cdn.test/" + key, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Product{}, &model.Image{}, &model.User{}))
	return db
}

func newCatalog(t *testing.T) (service.CatalogService, *gorm.DB, *fakeStorage) {
	t.Helper()
	db := newTestDB(t)
	storage := &fakeStorage{}
	svc := service.NewCatalogService(
		repository.NewProductRepo(db),
		repository.NewImageRepo(db),
		db,
		storage,
		cache.Noop(),
		nil,
	)
	return svc, db, storage
}

func validProduct(name string) *model.Product {
	return &model.Product{
		Name:        name,
		Description: "hoja de acero inoxidable",
		Price:       decimal.NewFromFloat(49.90),
		Stock:       10,
		Category:    "cuchillos",
	}
}

func TestCreateProduct(t *testing.T) {
	svc, _, _ := newCatalog(t)
	ctx := context.Background()

	p := validProduct("navaja clasica")
	require.NoError(t, svc.CreateProduct(ctx, p))
	assert.NotZero(t, p.ID)

	// Name is an alternate lookup key and must stay unique
	err := svc.CreateProduct(ctx, validProduct("navaja clasica"))
	assert.ErrorIs(t, err, service.ErrNameTaken)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _, _ := newCatalog(t)
	ctx := context.Background()

	missingName := validProduct("")
	assert.ErrorIs(t, svc.CreateProduct(ctx, missingName), service.ErrInvalidProduct)

	negativePrice := validProduct("cuchillo de caza")
	negativePrice.Price = decimal.NewFromInt(-5)
	assert.ErrorIs(t, svc.CreateProduct(ctx, negativePrice), service.ErrInvalidProduct)

	negativeStock := validProduct("cuchillo de monte")
	negativeStock.Stock = -1
	assert.ErrorIs(t, svc.CreateProduct(ctx, negativeStock), service.ErrInvalidProduct)
}

func TestCreateProductSurfacesStoreFailure(t *testing.T) {
	svc, db, _ := newCatalog(t)
	ctx := context.Background()

	// With the table gone, the uniqueness lookup on the name cannot run;
	// that failure must come back as an error, not as a free name.
	require.NoError(t, db.Migrator().DropTable(&model.Product{}))

	err := svc.CreateProduct(ctx, validProduct("navaja clasica"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrNameTaken)
	assert.NotErrorIs(t, err, service.ErrInvalidProduct)
}

func TestUpdateProduct(t *testing.T) {
	svc, _, _ := newCatalog(t)
	ctx := context.Background()

	p := validProduct("navaja clasica")
	require.NoError(t, svc.CreateProduct(ctx, p))

	req := validProduct("navaja clasica")
	req.Description = "edicion limitada"
	req.Stock = 4
	updated, err := svc.UpdateProduct(ctx, p.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "edicion limitada", updated.Description)
	assert.Equal(t, 4, updated.Stock)

	_, err = svc.UpdateProduct(ctx, 9999, req)
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func attachPNG(t *testing.T, svc service.CatalogService, productID uint, name string) *model.Image {
	t.Helper()
	img, err := svc.AttachImage(context.Background(), productID, name, "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	return img
}

func TestAttachImage(t *testing.T) {
	svc, _, storage := newCatalog(t)
	ctx := context.Background()

	p := validProduct("navaja clasica")
	require.NoError(t, svc.CreateProduct(ctx, p))

	first := attachPNG(t, svc, p.ID, "frente.png")
	second := attachPNG(t, svc, p.ID, "dorso.png")

	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)
	assert.Len(t, storage.uploaded, 2)
	assert.True(t, strings.HasPrefix(first.URL, "https://cdn.test/"))
	assert.Contains(t, first.StorageKey, fmt.Sprintf("productos/%d/", p.ID))

	_, err := svc.AttachImage(ctx, p.ID, "manual.pdf", "application/pdf", strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, service.ErrBadImageFormat)

	_, err = svc.AttachImage(ctx, 9999, "frente.png", "image/png", strings.NewReader("png"))
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestDeleteImage(t *testing.T) {
	svc, db, storage := newCatalog(t)
	ctx := context.Background()

	p := validProduct("navaja clasica")
	require.NoError(t, svc.CreateProduct(ctx, p))
	img := attachPNG(t, svc, p.ID, "frente.png")

	require.NoError(t, svc.DeleteImage(ctx, img.ID))
	assert.Contains(t, storage.deleted, img.StorageKey)

	var count int64
	db.Model(&model.Image{}).Where("id = ?", img.ID).Count(&count)
	assert.Zero(t, count)

	assert.ErrorIs(t, svc.DeleteImage(ctx, img.ID), service.ErrImageNotFound)
}

func TestDeleteProductCascades(t *testing.T) {
	svc, db, storage := newCatalog(t)
	ctx := context.Background()

	p := validProduct("navaja clasica")
	require.NoError(t, svc.CreateProduct(ctx, p))
	first := attachPNG(t, svc, p.ID, "frente.png")
	second := attachPNG(t, svc, p.ID, "dorso.png")

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))

	// Product and image rows are gone
	var products, images int64
	db.Model(&model.Product{}).Where("id = ?", p.ID).Count(&products)
	db.Model(&model.Image{}).Where("product_id = ?", p.ID).Count(&images)
	assert.Zero(t, products)
	assert.Zero(t, images)

	// Remote media objects are reclaimed too
	assert.Contains(t, storage.deleted, first.StorageKey)
	assert.Contains(t, storage.deleted, second.StorageKey)

	assert.ErrorIs(t, svc.DeleteProduct(ctx, p.ID), service.ErrProductNotFound)
}

func TestListProductsOrdersImages(t *testing.T) {
	svc, _, _ := newCatalog(t)
	ctx := context.Background()

	p := validProduct("navaja clasica")
	require.NoError(t, svc.CreateProduct(ctx, p))
	attachPNG(t, svc, p.ID, "frente.png")
	attachPNG(t, svc, p.ID, "dorso.png")
	attachPNG(t, svc, p.ID, "detalle.png")

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Len(t, products[0].Images, 3)
	for i, img := range products[0].Images {
		assert.Equal(t, i, img.Position)
	}
}
