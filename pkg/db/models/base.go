package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ensureID assigns a v4 id before insert so rows written through SQLite match Postgres defaults.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error     { ensureID(&u.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error  { ensureID(&p.ID); return nil }
func (c *CartLine) BeforeCreate(*gorm.DB) error { ensureID(&c.ID); return nil }
func (a *Address) BeforeCreate(*gorm.DB) error  { ensureID(&a.ID); return nil }
func (l *Location) BeforeCreate(*gorm.DB) error { ensureID(&l.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error    { ensureID(&o.ID); return nil }
