package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	Name        string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"nombre" validate:"required"`
	Description string          `gorm:"type:text" json:"descripcion"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"precio" validate:"dec_gte0"`
	Stock       int             `gorm:"not null;default:0" json:"stock" validate:"gte=0"`
	Category    string          `gorm:"type:varchar(100)" json:"categoria"`

	// Images keep their catalog order via Position
	Images []Image `gorm:"constraint:OnDelete:CASCADE" json:"imagenes,omitempty"`
}
