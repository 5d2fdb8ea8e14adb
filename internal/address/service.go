package address

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mandlimart/mandlimart-backend/pkg/db/models"
	pkgerrors "github.com/mandlimart/mandlimart-backend/pkg/errors"
)

// Service manages a user's saved addresses.
type Service interface {
	AddAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (*AddressDTO, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error)
}

type addressStore interface {
	Create(ctx context.Context, addr *models.Address) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
}

type locationChecker interface {
	Known(ctx context.Context, in AddressInput) (bool, error)
}

// ServiceParams bundles the address book dependencies.
type ServiceParams struct {
	Repo                 addressStore
	Locations            locationChecker
	RequireKnownLocation bool
}

type service struct {
	repo         addressStore
	locations    locationChecker
	requireKnown bool
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if params.RequireKnownLocation && params.Locations == nil {
		return nil, fmt.Errorf("location checker required when known locations are enforced")
	}
	return &service{
		repo:         params.Repo,
		locations:    params.Locations,
		requireKnown: params.RequireKnownLocation,
	}, nil
}

func (s *service) AddAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (*AddressDTO, error) {
	in := input.trimmed()
	if err := validate(in); err != nil {
		return nil, err
	}

	if s.requireKnown {
		ok, err := s.locations.Known(ctx, in)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, pkgerrors.Validation("location is not deliverable", pkgerrors.FieldErrors{"pincode": "unknown location"})
		}
	}

	row := models.Address{
		UserID:      userID,
		FullName:    in.FullName,
		AddressLine: in.AddressLine,
		Country:     in.Country,
		State:       in.State,
		City:        in.City,
		Street:      in.Street,
		Pincode:     in.Pincode,
		Phone:       in.Phone,
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "save address")
	}
	dto := FromModel(row)
	return &dto, nil
}

func (s *service) ListAddresses(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list addresses")
	}
	out := make([]AddressDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

func validate(in AddressInput) error {
	fields := pkgerrors.FieldErrors{}
	required := []struct{ name, value string }{
		{"full_name", in.FullName},
		{"address_line", in.AddressLine},
		{"country", in.Country},
		{"state", in.State},
		{"city", in.City},
		{"street", in.Street},
		{"pincode", in.Pincode},
		{"phone", in.Phone},
	}
	for _, f := range required {
		if f.value == "" {
			fields[f.name] = "is required"
		}
	}
	if len(fields) > 0 {
		return pkgerrors.Validation("address is incomplete", fields)
	}
	return nil
}
