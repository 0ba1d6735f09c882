package profile

import (
	"context"
	"fmt"
	"reflect"

	"github.com/pilacorp/go-identity-sdk/identity/common/errs"
)

// Connector implements profile CRUD plus filtered listing over a Store.
type Connector struct {
	store Store
}

// NewConnector creates a profile connector over the given store.
func NewConnector(store Store) (*Connector, error) {
	if store == nil {
		return nil, fmt.Errorf("profile store is required")
	}
	return &Connector{store: store}, nil
}

// Filter selects profiles whose public or private profile carries the named
// property with an equal value.
type Filter struct {
	Property string
	Value    interface{}
}

// ListOpt configures profile listing.
type ListOpt func(*listOptions)

type listOptions struct {
	filters []Filter
	fields  []string
}

// WithFilters restricts the listing to profiles matching every given
// filter.
func WithFilters(filters ...Filter) ListOpt {
	return func(o *listOptions) {
		o.filters = append(o.filters, filters...)
	}
}

// WithListFields projects each listed profile down to the named properties
// of its public and private parts, as WithFields does for a single profile.
func WithListFields(fields ...string) ListOpt {
	return func(o *listOptions) {
		o.fields = append(o.fields, fields...)
	}
}

// GetOpt configures profile retrieval.
type GetOpt func(*getOptions)

type getOptions struct {
	fields []string
}

// WithFields projects the returned profile down to the named properties of
// its public and private parts. Without it the full record is returned.
func WithFields(fields ...string) GetOpt {
	return func(o *getOptions) {
		o.fields = append(o.fields, fields...)
	}
}

// CreateProfile stores the profile. An existing record under the same
// identity is overwritten, so create is an idempotent upsert.
func (c *Connector) CreateProfile(ctx context.Context, profile *Profile) (*Profile, error) {
	const op = "createProfile"

	if profile == nil {
		return nil, errs.NewValidation(op, "profile", "must not be nil")
	}
	if profile.Identity == "" {
		return nil, errs.NewValidation(op, "identity", "must not be empty")
	}

	if err := c.store.Set(ctx, profile); err != nil {
		return nil, errs.NewOperation(op, err)
	}
	return profile, nil
}

// GetProfile fetches the profile for identity, optionally projected to a
// named subset of properties.
func (c *Connector) GetProfile(ctx context.Context, identity string, opts ...GetOpt) (*Profile, error) {
	const op = "getProfile"

	if identity == "" {
		return nil, errs.NewValidation(op, "identity", "must not be empty")
	}

	options := &getOptions{}
	for _, opt := range opts {
		opt(options)
	}

	profile, err := c.store.Get(ctx, identity)
	if err != nil {
		return nil, errs.NewOperation(op, err)
	}
	if profile == nil {
		return nil, errs.NewNotFound(op, identity)
	}

	if len(options.fields) > 0 {
		profile.PublicProfile = projectFields(profile.PublicProfile, options.fields)
		profile.PrivateProfile = projectFields(profile.PrivateProfile, options.fields)
	}
	return profile, nil
}

// UpdateProfile replaces an existing profile record. A missing identity is
// NotFound, unlike CreateProfile's upsert.
func (c *Connector) UpdateProfile(ctx context.Context, profile *Profile) (*Profile, error) {
	const op = "updateProfile"

	if profile == nil {
		return nil, errs.NewValidation(op, "profile", "must not be nil")
	}
	if profile.Identity == "" {
		return nil, errs.NewValidation(op, "identity", "must not be empty")
	}

	existing, err := c.store.Get(ctx, profile.Identity)
	if err != nil {
		return nil, errs.NewOperation(op, err)
	}
	if existing == nil {
		return nil, errs.NewNotFound(op, profile.Identity)
	}

	if err := c.store.Set(ctx, profile); err != nil {
		return nil, errs.NewOperation(op, err)
	}
	return profile, nil
}

// RemoveProfile deletes the profile for identity. A missing identity is
// NotFound.
func (c *Connector) RemoveProfile(ctx context.Context, identity string) error {
	const op = "removeProfile"

	if identity == "" {
		return errs.NewValidation(op, "identity", "must not be empty")
	}

	existing, err := c.store.Get(ctx, identity)
	if err != nil {
		return errs.NewOperation(op, err)
	}
	if existing == nil {
		return errs.NewNotFound(op, identity)
	}

	if err := c.store.Delete(ctx, identity); err != nil {
		return errs.NewOperation(op, err)
	}
	return nil
}

// ListProfiles returns every profile matching the configured filters,
// ordered by identity, optionally projected to a named subset of
// properties.
func (c *Connector) ListProfiles(ctx context.Context, opts ...ListOpt) ([]*Profile, error) {
	const op = "listProfiles"

	options := &listOptions{}
	for _, opt := range opts {
		opt(options)
	}
	for _, filter := range options.filters {
		if filter.Property == "" {
			return nil, errs.NewValidation(op, "filter.property", "must not be empty")
		}
	}

	profiles, err := c.store.List(ctx)
	if err != nil {
		return nil, errs.NewOperation(op, err)
	}

	matched := make([]*Profile, 0, len(profiles))
	for _, profile := range profiles {
		if !matchesFilters(profile, options.filters) {
			continue
		}
		if len(options.fields) > 0 {
			profile.PublicProfile = projectFields(profile.PublicProfile, options.fields)
			profile.PrivateProfile = projectFields(profile.PrivateProfile, options.fields)
		}
		matched = append(matched, profile)
	}
	return matched, nil
}

func matchesFilters(profile *Profile, filters []Filter) bool {
	for _, filter := range filters {
		if !hasProperty(profile.PublicProfile, filter) && !hasProperty(profile.PrivateProfile, filter) {
			return false
		}
	}
	return true
}

func hasProperty(properties map[string]interface{}, filter Filter) bool {
	value, exists := properties[filter.Property]
	return exists && reflect.DeepEqual(value, filter.Value)
}

func projectFields(properties map[string]interface{}, fields []string) map[string]interface{} {
	if properties == nil {
		return nil
	}
	projected := make(map[string]interface{})
	for _, field := range fields {
		if value, exists := properties[field]; exists {
			projected[field] = value
		}
	}
	return projected
}
