package model

import "time"

// User is a registered account. PasswordHash always holds a bcrypt hash.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:50;not null;uniqueIndex"`
	Email        string    `json:"email" gorm:"size:50;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"column:password;size:80;not null"` // Never expose in JSON
	IsVerified   bool      `json:"is_verified" gorm:"not null;default:false"`
	JoinDate     time.Time `json:"join_date" gorm:"<-:create;autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at"`

	Businesses []Business `json:"-" gorm:"foreignKey:OwnerID"`
}
