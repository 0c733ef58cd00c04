// Package model holds the GORM persistence models.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. The application assigns the UUID.
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(100)"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex:users_email_key;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Token        string    `gorm:"type:text;not null"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  time.Time

	Phones []*PhoneModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// PhoneModel mirrors the 'phones' table. UserID references users.id.
type PhoneModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Number      string    `gorm:"type:varchar(20);not null"`
	CityCode    string    `gorm:"type:varchar(10)"`
	CountryCode string    `gorm:"type:varchar(10)"`
}

// TableName explicitly sets the table name for GORM.
func (PhoneModel) TableName() string {
	return "phones"
}
