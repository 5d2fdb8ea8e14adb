package profiles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mandlimart/mandlimart-backend/pkg/db/models"
	pkgerrors "github.com/mandlimart/mandlimart-backend/pkg/errors"
)

// Service loads and saves the caller's profile.
type Service interface {
	LoadProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	SaveProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*ProfileDTO, error)
}

type profileStore interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) error
}

type service struct {
	repo          profileStore
	maxImageBytes int
	now           func() time.Time
}

func NewService(repo profileStore, maxImageBytes int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	return &service{repo: repo, maxImageBytes: maxImageBytes, now: time.Now}, nil
}

// LoadProfile returns nil without error when the user has not saved a profile yet.
func (s *service) LoadProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	row, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load profile")
	}
	dto := FromModel(*row)
	return &dto, nil
}

func (s *service) SaveProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*ProfileDTO, error) {
	in := input.trimmed()
	if err := s.validate(in); err != nil {
		return nil, err
	}

	row := models.Profile{
		ID:          userID,
		FullName:    in.FullName,
		Street:      in.Street,
		City:        in.City,
		State:       in.State,
		Pincode:     in.Pincode,
		Phone:       in.Phone,
		ImageBase64: in.ImageBase64,
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.repo.Upsert(ctx, &row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "save profile")
	}
	dto := FromModel(row)
	return &dto, nil
}

func (s *service) validate(in ProfileInput) error {
	fields := pkgerrors.FieldErrors{}
	required := []struct{ name, value string }{
		{"full_name", in.FullName},
		{"street", in.Street},
		{"city", in.City},
		{"state", in.State},
		{"pincode", in.Pincode},
		{"phone", in.Phone},
	}
	for _, f := range required {
		if f.value == "" {
			fields[f.name] = "is required"
		}
	}
	if in.ImageBase64 != nil {
		if err := validateImage(*in.ImageBase64, s.maxImageBytes); err != nil {
			fields["image_base64"] = err.Error()
		}
	}
	if len(fields) > 0 {
		return pkgerrors.Validation("profile is incomplete", fields)
	}
	return nil
}
