package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Variant status constants. Status is derived from stock and the
// discontinued flag, never stored.
const (
	VariantStatusAvailable    = "Available"
	VariantStatusOutOfStock   = "Out of Stock"
	VariantStatusDiscontinued = "Discontinued"
)

type Category struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"uniqueIndex" json:"name"`
	IsListed  bool           `gorm:"default:true" json:"is_listed"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type Brand struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex" json:"name"`
	IsBlocked bool      `gorm:"default:false" json:"is_blocked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	BrandID     uint      `json:"brand_id"`
	Brand       Brand     `json:"brand" gorm:"foreignKey:BrandID"`
	CategoryID  uint      `gorm:"index" json:"category_id"`
	Category    Category  `json:"category" gorm:"foreignKey:CategoryID"`
	Variants    []Variant `json:"variants" gorm:"foreignKey:ProductID"`
	IsBlocked   bool      `gorm:"default:false" json:"is_blocked"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Variant is a purchasable SKU of a product (one color). Orders and carts
// reference variants by the generated ID, never by list position.
// Invariants: SalePrice <= Price, Stock >= 0.
type Variant struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID    uint      `gorm:"index" json:"product_id"`
	Color        string    `json:"color"`
	ColorName    string    `json:"color_name"`
	Stock        int       `json:"stock"`
	Price        float64   `json:"price"`
	SalePrice    float64   `json:"sale_price"`
	Images       []string  `gorm:"serializer:json" json:"images"`
	Discontinued bool      `gorm:"default:false" json:"discontinued"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate assigns the stable variant ID.
func (v *Variant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// DerivedStatus computes the display status of a variant.
func (v Variant) DerivedStatus() string {
	if v.Discontinued {
		return VariantStatusDiscontinued
	}
	if v.Stock <= 0 {
		return VariantStatusOutOfStock
	}
	return VariantStatusAvailable
}

// EffectiveSalePrice is the manual sale price, falling back to the base
// price when no sale price is set. Offer discounts are layered on top by
// the pricing engine.
func (v Variant) EffectiveSalePrice() float64 {
	if v.SalePrice > 0 {
		return v.SalePrice
	}
	return v.Price
}

// FindVariant resolves a variant by ID within a loaded product.
func (p *Product) FindVariant(variantID string) (*Variant, bool) {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i], true
		}
	}
	return nil, false
}
