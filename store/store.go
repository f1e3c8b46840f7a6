package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hrygo/recall/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// Migrate brings the schema up to date before any other store call.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.driver.Migrate(ctx); err != nil {
		return errors.Wrap(err, "failed to migrate schema")
	}
	return nil
}

// DefaultTimezone exposes the configured fallback timezone for conversations
// without a preference row.
func (s *Store) DefaultTimezone() string {
	if s.profile == nil || s.profile.DefaultTimezone == "" {
		return "UTC"
	}
	return s.profile.DefaultTimezone
}
