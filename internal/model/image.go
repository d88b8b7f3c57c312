package model

// Image is a remote-hosted media object attached to a product.
// StorageKey identifies the object at the media host so it can be
// deleted when the image row (or the owning product) goes away.
type Image struct {
	BaseModel
	ProductID  uint   `gorm:"index;not null" json:"producto_id"`
	URL        string `gorm:"type:text;not null" json:"url"`
	StorageKey string `gorm:"type:varchar(255)" json:"-"`
	Position   int    `gorm:"not null;default:0" json:"posicion"`
}
