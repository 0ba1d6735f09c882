package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-identity-sdk/identity/common/errs"
)

func newTestConnector(t *testing.T) *Connector {
	t.Helper()
	connector, err := NewConnector(NewMemoryStore())
	require.NoError(t, err)
	return connector
}

func TestCreateIsUpsert(t *testing.T) {
	ctx := context.Background()
	connector := newTestConnector(t)

	_, err := connector.CreateProfile(ctx, &Profile{
		Identity:      "alice",
		PublicProfile: map[string]interface{}{"displayName": "Alice"},
	})
	require.NoError(t, err)

	// Creating again under the same identity overwrites.
	_, err = connector.CreateProfile(ctx, &Profile{
		Identity:      "alice",
		PublicProfile: map[string]interface{}{"displayName": "Alice B."},
	})
	require.NoError(t, err)

	profile, err := connector.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice B.", profile.PublicProfile["displayName"])

	_, err = connector.CreateProfile(ctx, &Profile{})
	assert.True(t, errs.IsValidation(err))
}

func TestGetProfileProjection(t *testing.T) {
	ctx := context.Background()
	connector := newTestConnector(t)

	_, err := connector.CreateProfile(ctx, &Profile{
		Identity: "alice",
		PublicProfile: map[string]interface{}{
			"displayName": "Alice",
			"homepage":    "https://alice.example",
		},
		PrivateProfile: map[string]interface{}{
			"email":       "alice@example.com",
			"displayName": "Alice (internal)",
		},
	})
	require.NoError(t, err)

	full, err := connector.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, full.PublicProfile, 2)
	assert.Len(t, full.PrivateProfile, 2)

	projected, err := connector.GetProfile(ctx, "alice", WithFields("displayName"))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"displayName": "Alice"}, projected.PublicProfile)
	assert.Equal(t, map[string]interface{}{"displayName": "Alice (internal)"}, projected.PrivateProfile)

	_, err = connector.GetProfile(ctx, "missing")
	assert.True(t, errs.IsNotFound(err))
}

func TestUpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	connector := newTestConnector(t)

	_, err := connector.UpdateProfile(ctx, &Profile{Identity: "alice"})
	assert.True(t, errs.IsNotFound(err), "update must not create")

	_, err = connector.CreateProfile(ctx, &Profile{
		Identity:      "alice",
		PublicProfile: map[string]interface{}{"displayName": "Alice"},
	})
	require.NoError(t, err)

	_, err = connector.UpdateProfile(ctx, &Profile{
		Identity:      "alice",
		PublicProfile: map[string]interface{}{"displayName": "Dr. Alice"},
	})
	require.NoError(t, err)

	profile, err := connector.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Alice", profile.PublicProfile["displayName"])

	require.NoError(t, connector.RemoveProfile(ctx, "alice"))
	assert.True(t, errs.IsNotFound(connector.RemoveProfile(ctx, "alice")))
	_, err = connector.GetProfile(ctx, "alice")
	assert.True(t, errs.IsNotFound(err))
}

func TestListProfilesFiltered(t *testing.T) {
	ctx := context.Background()
	connector := newTestConnector(t)

	profiles := []*Profile{
		{
			Identity:      "alice",
			PublicProfile: map[string]interface{}{"org": "acme", "role": "admin"},
		},
		{
			Identity:       "bob",
			PublicProfile:  map[string]interface{}{"org": "acme"},
			PrivateProfile: map[string]interface{}{"role": "admin"},
		},
		{
			Identity:      "carol",
			PublicProfile: map[string]interface{}{"org": "globex", "role": "admin"},
		},
	}
	for _, p := range profiles {
		_, err := connector.CreateProfile(ctx, p)
		require.NoError(t, err)
	}

	all, err := connector.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"alice", "bob", "carol"},
		[]string{all[0].Identity, all[1].Identity, all[2].Identity}, "list is ordered by identity")

	acme, err := connector.ListProfiles(ctx, WithFilters(Filter{Property: "org", Value: "acme"}))
	require.NoError(t, err)
	require.Len(t, acme, 2)

	// Filters match across the public and private parts, and combine as AND.
	admins, err := connector.ListProfiles(ctx, WithFilters(
		Filter{Property: "org", Value: "acme"},
		Filter{Property: "role", Value: "admin"}))
	require.NoError(t, err)
	require.Len(t, admins, 2)
	assert.Equal(t, "alice", admins[0].Identity)
	assert.Equal(t, "bob", admins[1].Identity)

	none, err := connector.ListProfiles(ctx, WithFilters(Filter{Property: "org", Value: "initech"}))
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = connector.ListProfiles(ctx, WithFilters(Filter{Value: "x"}))
	assert.True(t, errs.IsValidation(err))
}

func TestListProfilesProjected(t *testing.T) {
	ctx := context.Background()
	connector := newTestConnector(t)

	_, err := connector.CreateProfile(ctx, &Profile{
		Identity:       "alice",
		PublicProfile:  map[string]interface{}{"org": "acme", "displayName": "Alice"},
		PrivateProfile: map[string]interface{}{"email": "alice@example.com", "org": "acme"},
	})
	require.NoError(t, err)
	_, err = connector.CreateProfile(ctx, &Profile{
		Identity:      "bob",
		PublicProfile: map[string]interface{}{"org": "globex", "displayName": "Bob"},
	})
	require.NoError(t, err)

	// Filtered listing with projection returns the named subset only.
	listed, err := connector.ListProfiles(ctx,
		WithFilters(Filter{Property: "org", Value: "acme"}),
		WithListFields("org"))
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "alice", listed[0].Identity)
	assert.Equal(t, map[string]interface{}{"org": "acme"}, listed[0].PublicProfile)
	assert.Equal(t, map[string]interface{}{"org": "acme"}, listed[0].PrivateProfile)

	// Projection without filters applies to every record.
	all, err := connector.ListProfiles(ctx, WithListFields("displayName"))
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, map[string]interface{}{"displayName": "Alice"}, all[0].PublicProfile)
	assert.Equal(t, map[string]interface{}{"displayName": "Bob"}, all[1].PublicProfile)

	// The stored record is untouched by projection.
	full, err := connector.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, full.PublicProfile, 2)
}
