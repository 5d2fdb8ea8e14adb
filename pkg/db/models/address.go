package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a saved shipping address using the country > state > city > street > pincode hierarchy.
type Address struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	FullName    string    `gorm:"column:full_name;not null"`
	AddressLine string    `gorm:"column:address_line;not null"`
	Country     string    `gorm:"column:country;not null"`
	State       string    `gorm:"column:state;not null"`
	City        string    `gorm:"column:city;not null"`
	Street      string    `gorm:"column:street;not null"`
	Pincode     string    `gorm:"column:pincode;not null"`
	Phone       string    `gorm:"column:phone;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Location is one leaf of the deliverable location hierarchy.
type Location struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Country string    `gorm:"column:country;not null"`
	State   string    `gorm:"column:state;not null"`
	City    string    `gorm:"column:city;not null"`
	Street  string    `gorm:"column:street;not null"`
	Pincode string    `gorm:"column:pincode;not null"`
}
