package address

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mandlimart/mandlimart-backend/pkg/db/models"
	pkgerrors "github.com/mandlimart/mandlimart-backend/pkg/errors"
)

// Level names one tier of the location hierarchy.
type Level string

const (
	LevelCountry Level = "country"
	LevelState   Level = "state"
	LevelCity    Level = "city"
	LevelStreet  Level = "street"
	LevelPincode Level = "pincode"
)

// hierarchy is ordered broadest first.
var hierarchy = []Level{LevelCountry, LevelState, LevelCity, LevelStreet, LevelPincode}

// LocationFilter carries the broader selections that scope a narrower lookup.
type LocationFilter struct {
	Country string
	State   string
	City    string
	Street  string
}

func (f LocationFilter) value(level Level) string {
	switch level {
	case LevelCountry:
		return strings.TrimSpace(f.Country)
	case LevelState:
		return strings.TrimSpace(f.State)
	case LevelCity:
		return strings.TrimSpace(f.City)
	case LevelStreet:
		return strings.TrimSpace(f.Street)
	}
	return ""
}

// LocationRepository reads distinct values from the locations table.
type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Distinct returns the sorted distinct values of level under the given equality filters.
func (r *LocationRepository) Distinct(ctx context.Context, level Level, where map[string]string) ([]string, error) {
	query := r.db.WithContext(ctx).Model(&models.Location{})
	for _, l := range hierarchy {
		if v, ok := where[string(l)]; ok {
			query = query.Where(fmt.Sprintf("%s = ?", l), v)
		}
	}
	values := []string{}
	err := query.Distinct(string(level)).Order(fmt.Sprintf("%s ASC", level)).Pluck(string(level), &values).Error
	return values, err
}

// Exists reports whether the full tuple is a known deliverable location.
func (r *LocationRepository) Exists(ctx context.Context, in AddressInput) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Location{}).
		Where("country = ? AND state = ? AND city = ? AND street = ? AND pincode = ?",
			in.Country, in.State, in.City, in.Street, in.Pincode).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a location row; used by seeding and tests.
func (r *LocationRepository) Create(ctx context.Context, loc *models.Location) error {
	return r.db.WithContext(ctx).Create(loc).Error
}

type locationStore interface {
	Distinct(ctx context.Context, level Level, where map[string]string) ([]string, error)
	Exists(ctx context.Context, in AddressInput) (bool, error)
}

// LocationService answers cascading lookups of the location hierarchy.
type LocationService struct {
	repo locationStore
}

func NewLocationService(repo locationStore) (*LocationService, error) {
	if repo == nil {
		return nil, fmt.Errorf("location repository required")
	}
	return &LocationService{repo: repo}, nil
}

func (s *LocationService) Countries(ctx context.Context) ([]string, error) {
	return s.Options(ctx, LevelCountry, LocationFilter{})
}

func (s *LocationService) States(ctx context.Context, country string) ([]string, error) {
	return s.Options(ctx, LevelState, LocationFilter{Country: country})
}

func (s *LocationService) Cities(ctx context.Context, country, state string) ([]string, error) {
	return s.Options(ctx, LevelCity, LocationFilter{Country: country, State: state})
}

func (s *LocationService) Streets(ctx context.Context, country, state, city string) ([]string, error) {
	return s.Options(ctx, LevelStreet, LocationFilter{Country: country, State: state, City: city})
}

func (s *LocationService) Pincodes(ctx context.Context, country, state, city, street string) ([]string, error) {
	return s.Options(ctx, LevelPincode, LocationFilter{Country: country, State: state, City: city, Street: street})
}

// Options lists the values of level. Every broader level must be selected.
func (s *LocationService) Options(ctx context.Context, level Level, filter LocationFilter) ([]string, error) {
	where := map[string]string{}
	fields := pkgerrors.FieldErrors{}
	found := false
	for _, l := range hierarchy {
		if l == level {
			found = true
			break
		}
		v := filter.value(l)
		if v == "" {
			fields[string(l)] = "is required"
			continue
		}
		where[string(l)] = v
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown location level %q", level))
	}
	if len(fields) > 0 {
		return nil, pkgerrors.Validation("broader location not selected", fields)
	}

	values, err := s.repo.Distinct(ctx, level, where)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list locations")
	}
	return values, nil
}

// Known reports whether the address sits on a known location tuple.
func (s *LocationService) Known(ctx context.Context, in AddressInput) (bool, error) {
	ok, err := s.repo.Exists(ctx, in)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "check location")
	}
	return ok, nil
}
