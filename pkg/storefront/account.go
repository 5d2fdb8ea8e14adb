package storefront

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) AddAddress(ctx context.Context, input AddressInput) (*Address, error) {
	var created Address
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/v1/addresses", body: input}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) ListAddresses(ctx context.Context) ([]Address, error) {
	var items []Address
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/v1/addresses"}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// LocationOptions lists the values of level under the broader levels set in filter.
func (c *Client) LocationOptions(ctx context.Context, level Level, filter LocationFilter) ([]string, error) {
	path, ok := level.path()
	if !ok {
		return nil, errUnknownLevel(level)
	}
	query := url.Values{}
	for key, value := range map[string]string{
		"country": filter.Country,
		"state":   filter.State,
		"city":    filter.City,
		"street":  filter.Street,
	} {
		if value != "" {
			query.Set(key, value)
		}
	}
	var values []string
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/v1/locations/" + path, query: query}, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// LoadProfile returns nil when the caller has never saved a profile.
func (c *Client) LoadProfile(ctx context.Context) (*Profile, error) {
	var profile *Profile
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/v1/profile"}, &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (c *Client) SaveProfile(ctx context.Context, input ProfileInput) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, request{method: http.MethodPut, path: "/api/v1/profile", body: input}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
