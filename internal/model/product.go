package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultProductImage is the image every product starts with.
const DefaultProductImage = "productDefault.jpg"

// Product is an item listed by a business.
type Product struct {
	ID                  uint            `json:"id" gorm:"primaryKey"`
	Name                string          `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Category            string          `json:"category" gorm:"size:50;index"`
	OriginalPrice       decimal.Decimal `json:"original_price" gorm:"type:decimal(10,2);not null"`
	NewPrice            decimal.Decimal `json:"new_price" gorm:"type:decimal(10,2);not null"`
	PercentageDiscount  int             `json:"percentage_discount"`
	OfferExpirationDate time.Time       `json:"offer_expiration_date" gorm:"type:date"`
	Description         *string         `json:"product_description" gorm:"column:product_description;type:text"`
	Image               string          `json:"product_image" gorm:"column:product_image;size:100;default:'productDefault.jpg'"`
	DatePublished       time.Time       `json:"date_published" gorm:"<-:create;autoCreateTime"`
	BusinessID          uint            `json:"-" gorm:"not null;index"`

	Business Business `json:"-" gorm:"foreignKey:BusinessID"`
}

// ApplyDiscount recomputes PercentageDiscount from the two prices, truncated toward zero.
// The caller must have checked that OriginalPrice is positive.
func (p *Product) ApplyDiscount() {
	hundred := decimal.NewFromInt(100)
	p.PercentageDiscount = int(p.OriginalPrice.Sub(p.NewPrice).
		Div(p.OriginalPrice).
		Mul(hundred).
		IntPart())
}
