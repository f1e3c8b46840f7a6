package timezone_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/recall/internal/log"
	"github.com/hrygo/recall/internal/profile"
	"github.com/hrygo/recall/server/timezone"
	"github.com/hrygo/recall/store"
	"github.com/hrygo/recall/store/db/sqlite"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	p := &profile.Profile{Mode: "dev", Driver: "sqlite", DSN: ":memory:", DefaultTimezone: "UTC"}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)

	st := store.New(driver, p)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestPreferences_SetAndGet(t *testing.T) {
	ctx := context.Background()
	prefs := timezone.NewPreferences(newTestStore(t), log.NewNop())

	// No preference yet: the configured default applies.
	tz, err := prefs.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "UTC", tz)

	require.NoError(t, prefs.Set(ctx, "42", "Asia/Dubai"))

	tz, err = prefs.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Dubai", tz)

	// Other conversations are unaffected.
	tz, err = prefs.Get(ctx, "43")
	require.NoError(t, err)
	assert.Equal(t, "UTC", tz)
}

func TestPreferences_RejectsInvalidZone(t *testing.T) {
	ctx := context.Background()
	prefs := timezone.NewPreferences(newTestStore(t), log.NewNop())

	err := prefs.Set(ctx, "42", "Mars/Crater")
	require.ErrorIs(t, err, timezone.ErrInvalidTimezone)

	// Nothing was persisted.
	tz, err := prefs.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "UTC", tz)
}

func TestPreferences_Location(t *testing.T) {
	ctx := context.Background()
	prefs := timezone.NewPreferences(newTestStore(t), log.NewNop())

	require.NoError(t, prefs.Set(ctx, "42", "Europe/Berlin"))

	loc, tz, err := prefs.Location(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", tz)
	assert.Equal(t, "Europe/Berlin", loc.String())
}
