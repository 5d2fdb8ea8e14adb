package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is one-to-one with User; ID is the owning user's id.
type Profile struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FullName    string    `gorm:"column:full_name;not null"`
	Street      string    `gorm:"column:street;not null"`
	City        string    `gorm:"column:city;not null"`
	State       string    `gorm:"column:state;not null"`
	Pincode     string    `gorm:"column:pincode;not null"`
	Phone       string    `gorm:"column:phone;not null"`
	ImageBase64 *string   `gorm:"column:image_base64"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}
