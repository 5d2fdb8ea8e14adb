package address

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mandlimart/mandlimart-backend/pkg/db/models"
	"github.com/mandlimart/mandlimart-backend/pkg/types"
)

// AddressInput is the payload for saving a new address.
type AddressInput struct {
	FullName    string `json:"full_name"`
	AddressLine string `json:"address_line"`
	Country     string `json:"country"`
	State       string `json:"state"`
	City        string `json:"city"`
	Street      string `json:"street"`
	Pincode     string `json:"pincode"`
	Phone       string `json:"phone"`
}

func (in AddressInput) trimmed() AddressInput {
	return AddressInput{
		FullName:    strings.TrimSpace(in.FullName),
		AddressLine: strings.TrimSpace(in.AddressLine),
		Country:     strings.TrimSpace(in.Country),
		State:       strings.TrimSpace(in.State),
		City:        strings.TrimSpace(in.City),
		Street:      strings.TrimSpace(in.Street),
		Pincode:     strings.TrimSpace(in.Pincode),
		Phone:       strings.TrimSpace(in.Phone),
	}
}

// AddressDTO is a saved address as returned to the client.
type AddressDTO struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"full_name"`
	AddressLine string    `json:"address_line"`
	Country     string    `json:"country"`
	State       string    `json:"state"`
	City        string    `json:"city"`
	Street      string    `json:"street"`
	Pincode     string    `json:"pincode"`
	Phone       string    `json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromModel(a models.Address) AddressDTO {
	return AddressDTO{
		ID:          a.ID,
		FullName:    a.FullName,
		AddressLine: a.AddressLine,
		Country:     a.Country,
		State:       a.State,
		City:        a.City,
		Street:      a.Street,
		Pincode:     a.Pincode,
		Phone:       a.Phone,
		CreatedAt:   a.CreatedAt,
	}
}

// Snapshot copies the address into the value embedded in an order.
func Snapshot(a models.Address) types.AddressSnapshot {
	return types.AddressSnapshot{
		FullName:    a.FullName,
		AddressLine: a.AddressLine,
		Country:     a.Country,
		State:       a.State,
		City:        a.City,
		Street:      a.Street,
		Pincode:     a.Pincode,
		Phone:       a.Phone,
	}
}
