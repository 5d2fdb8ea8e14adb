package profiles

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mandlimart/mandlimart-backend/pkg/db/models"
)

// ProfileInput is the editable profile payload.
type ProfileInput struct {
	FullName    string  `json:"full_name"`
	Street      string  `json:"street"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Pincode     string  `json:"pincode"`
	Phone       string  `json:"phone"`
	ImageBase64 *string `json:"image_base64,omitempty"`
}

func (in ProfileInput) trimmed() ProfileInput {
	out := ProfileInput{
		FullName: strings.TrimSpace(in.FullName),
		Street:   strings.TrimSpace(in.Street),
		City:     strings.TrimSpace(in.City),
		State:    strings.TrimSpace(in.State),
		Pincode:  strings.TrimSpace(in.Pincode),
		Phone:    strings.TrimSpace(in.Phone),
	}
	if in.ImageBase64 != nil {
		if img := strings.TrimSpace(*in.ImageBase64); img != "" {
			out.ImageBase64 = &img
		}
	}
	return out
}

// ProfileDTO is the stored profile.
type ProfileDTO struct {
	UserID      uuid.UUID `json:"user_id"`
	FullName    string    `json:"full_name"`
	Street      string    `json:"street"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Pincode     string    `json:"pincode"`
	Phone       string    `json:"phone"`
	ImageBase64 *string   `json:"image_base64,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromModel(p models.Profile) ProfileDTO {
	return ProfileDTO{
		UserID:      p.ID,
		FullName:    p.FullName,
		Street:      p.Street,
		City:        p.City,
		State:       p.State,
		Pincode:     p.Pincode,
		Phone:       p.Phone,
		ImageBase64: p.ImageBase64,
		UpdatedAt:   p.UpdatedAt,
	}
}
