package repository

import (
	"go-storefront-api/internal/model"

	"gorm.io/gorm"
)

type ImageRepository interface {
	Create(image *model.Image) error
	FindByID(id uint) (*model.Image, error)
	FindByProduct(productID uint) ([]model.Image, error)
	NextPosition(productID uint) (int, error)
	Delete(tx *gorm.DB, id uint) error
	DeleteByProduct(tx *gorm.DB, productID uint) error
}

type imageRepo struct {
	db *gorm.DB
}

func NewImageRepo(db *gorm.DB) ImageRepository {
	return &imageRepo{db}
}

func (r *imageRepo) Create(image *model.Image) error {
	return r.db.Create(image).Error
}

func (r *imageRepo) FindByID(id uint) (*model.Image, error) {
	var image model.Image
	err := r.db.First(&image, "id = ?", id).Error
	return &image, err
}

func (r *imageRepo) FindByProduct(productID uint) ([]model.Image, error) {
	var images []model.Image
	err := r.db.Where("product_id = ?", productID).Order("position ASC").Find(&images).Error
	return images, err
}

// NextPosition returns the position for a newly attached image so the
// upload order is preserved in the catalog.
func (r *imageRepo) NextPosition(productID uint) (int, error) {
	var max int
	err := r.db.Model(&model.Image{}).
		Where("product_id = ?", productID).
		Select("COALESCE(MAX(position), -1)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (r *imageRepo) Delete(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.Image{}, "id = ?", id).Error
}

func (r *imageRepo) DeleteByProduct(tx *gorm.DB, productID uint) error {
	return tx.Delete(&model.Image{}, "product_id = ?", productID).Error
}
