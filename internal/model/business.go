package model

const (
	// DefaultRegion is used for a business's city and region until the owner sets them.
	DefaultRegion = "Unspecified"
	// DefaultLogo is the logo file every new business starts with.
	DefaultLogo = "default.jpg"
)

// Business is the seller profile created alongside every user.
type Business struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"business_name" gorm:"column:business_name;size:100;not null;uniqueIndex"`
	City        string  `json:"city" gorm:"size:50;not null;default:'Unspecified'"`
	Region      string  `json:"region" gorm:"size:50;not null;default:'Unspecified'"`
	Description *string `json:"business_description" gorm:"column:business_description;type:text"`
	Logo        string  `json:"logo" gorm:"size:100;default:'default.jpg'"`
	OwnerID     uint    `json:"owner_id" gorm:"not null;index"`

	Owner    User      `json:"-" gorm:"foreignKey:OwnerID"`
	Products []Product `json:"-" gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE"`
}
