package storefront

import (
	"context"
	"fmt"
	"sync"
)

// Level is one tier of the location hierarchy, broadest first.
type Level int

const (
	LevelCountry Level = iota
	LevelState
	LevelCity
	LevelStreet
	LevelPincode

	levelCount = int(LevelPincode) + 1
)

var levelPaths = [levelCount]string{"countries", "states", "cities", "streets", "pincodes"}

func (l Level) path() (string, bool) {
	if l < LevelCountry || l > LevelPincode {
		return "", false
	}
	return levelPaths[l], true
}

func (l Level) String() string {
	if p, ok := l.path(); ok {
		return p
	}
	return fmt.Sprintf("level(%d)", int(l))
}

func errUnknownLevel(l Level) error {
	return fmt.Errorf("unknown location level %d", int(l))
}

// LocationFilter carries the selected broader levels.
type LocationFilter struct {
	Country string
	State   string
	City    string
	Street  string
}

// LocationLoader lists the options of one level. *Client satisfies it.
type LocationLoader interface {
	LocationOptions(ctx context.Context, level Level, filter LocationFilter) ([]string, error)
}

// AddressPicker drives the country > state > city > street > pincode selection. Choosing a
// value clears every narrower selection and its options, then loads the next level. A load
// that finishes after a newer selection at the same or a broader level is discarded.
type AddressPicker struct {
	loader LocationLoader

	mu       sync.Mutex
	selected [levelCount]string
	options  [levelCount][]string
	gen      [levelCount]uint64
}

func NewAddressPicker(loader LocationLoader) *AddressPicker {
	return &AddressPicker{loader: loader}
}

// Load fetches the country list.
func (p *AddressPicker) Load(ctx context.Context) error {
	p.mu.Lock()
	for l := LevelCountry; l <= LevelPincode; l++ {
		p.selected[l] = ""
		p.options[l] = nil
		p.gen[l]++
	}
	gen := p.gen[LevelCountry]
	p.mu.Unlock()
	return p.fetch(ctx, LevelCountry, LocationFilter{}, gen)
}

// Select records value at level. Selecting requires every broader level to be chosen.
func (p *AddressPicker) Select(ctx context.Context, level Level, value string) error {
	if _, ok := level.path(); !ok {
		return errUnknownLevel(level)
	}

	p.mu.Lock()
	for l := LevelCountry; l < level; l++ {
		if p.selected[l] == "" {
			p.mu.Unlock()
			return fmt.Errorf("select a %s before %s", levelNoun(l), levelNoun(level))
		}
	}
	p.selected[level] = value
	for l := level + 1; l <= LevelPincode; l++ {
		p.selected[l] = ""
		p.options[l] = nil
		p.gen[l]++
	}
	if level == LevelPincode || value == "" {
		p.mu.Unlock()
		return nil
	}
	next := level + 1
	gen := p.gen[next]
	filter := p.filterLocked()
	p.mu.Unlock()

	return p.fetch(ctx, next, filter, gen)
}

func (p *AddressPicker) fetch(ctx context.Context, level Level, filter LocationFilter, gen uint64) error {
	values, err := p.loader.LocationOptions(ctx, level, filter)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen[level] != gen {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", level, err)
	}
	p.options[level] = append([]string(nil), values...)
	return nil
}

func (p *AddressPicker) filterLocked() LocationFilter {
	return LocationFilter{
		Country: p.selected[LevelCountry],
		State:   p.selected[LevelState],
		City:    p.selected[LevelCity],
		Street:  p.selected[LevelStreet],
	}
}

// Options returns the loaded choices for level.
func (p *AddressPicker) Options(level Level) []string {
	if _, ok := level.path(); !ok {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.options[level]...)
}

func (p *AddressPicker) Selected(level Level) string {
	if _, ok := level.path(); !ok {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected[level]
}

// Complete reports whether every level has a value.
func (p *AddressPicker) Complete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, v := range p.selected {
		if v == "" {
			return false
		}
	}
	return true
}

// Fill copies the selection into input.
func (p *AddressPicker) Fill(input *AddressInput) {
	p.mu.Lock()
	defer p.mu.Unlock()
	input.Country = p.selected[LevelCountry]
	input.State = p.selected[LevelState]
	input.City = p.selected[LevelCity]
	input.Street = p.selected[LevelStreet]
	input.Pincode = p.selected[LevelPincode]
}

func levelNoun(l Level) string {
	switch l {
	case LevelCountry:
		return "country"
	case LevelCity:
		return "city"
	default:
		p, _ := l.path()
		return p[:len(p)-1]
	}
}
