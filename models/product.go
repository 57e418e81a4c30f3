package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ColorTheme is a predefined palette a customer can pick for a design.
type ColorTheme struct {
	Name string `bson:"name" json:"name"`
	Hex  string `bson:"hex" json:"hex"`
}

// Product is a catalog entry. Name is Arabic-first; NameEn is optional.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name" binding:"required"`
	NameEn      string             `bson:"nameEn,omitempty" json:"nameEn,omitempty"`
	Slug        string             `bson:"slug" json:"slug" binding:"required"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CategoryID  primitive.ObjectID `bson:"categoryId" json:"categoryId"`
	Price       float64            `bson:"price" json:"price" binding:"required,gte=0"`
	SalePrice   float64            `bson:"salePrice,omitempty" json:"salePrice,omitempty"`
	Images      []string           `bson:"images,omitempty" json:"images,omitempty"`
	IsActive    bool               `bson:"isActive" json:"isActive"`

	EnableCustomizations  bool `bson:"enableCustomizations" json:"enableCustomizations"`
	AllowColorChanges     bool `bson:"allowColorChanges" json:"allowColorChanges"`
	AllowTextEditing      bool `bson:"allowTextEditing" json:"allowTextEditing"`
	AllowImageReplacement bool `bson:"allowImageReplacement" json:"allowImageReplacement"`
	AllowLogoUpload       bool `bson:"allowLogoUpload" json:"allowLogoUpload"`

	ColorThemes   []ColorTheme `bson:"colorThemes,omitempty" json:"colorThemes,omitempty"`
	PurchaseCount int          `bson:"purchaseCount" json:"purchaseCount"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// EffectivePrice returns the sale price when one is set.
func (p *Product) EffectivePrice() float64 {
	if p.SalePrice > 0 && p.SalePrice < p.Price {
		return p.SalePrice
	}
	return p.Price
}
