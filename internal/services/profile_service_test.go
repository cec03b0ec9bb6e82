package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"streamflix/internal/models/db_models"
	"streamflix/internal/models/request_models"
	"streamflix/pkg/utils"
)

func ptr[T any](v T) *T { return &v }

func TestProfileCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID, mainID := f.signup(t, "a@x.com")

	kids, err := f.profiles.Create(ctx, userID, request_models.CreateProfileRequest{Name: "  Kids ", IsKidsProfile: true})
	require.NoError(t, err)
	assert.Equal(t, "Kids", kids.Name)
	assert.Equal(t, db_models.DefaultAvatarURL, kids.AvatarURL)
	assert.True(t, kids.IsKidsProfile)
	assert.Equal(t, userID.String(), kids.UserID)

	list, err := f.profiles.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, mainID.String(), list[0].ID)
	assert.Equal(t, kids.ID, list[1].ID)

	kidsID := uuid.MustParse(kids.ID)
	updated, err := f.profiles.Update(ctx, userID, kidsID, request_models.UpdateProfileRequest{AvatarURL: ptr("/avatars/fox.png")})
	require.NoError(t, err)
	assert.Equal(t, "Kids", updated.Name)
	assert.Equal(t, "/avatars/fox.png", updated.AvatarURL)
	assert.True(t, updated.IsKidsProfile)

	updated, err = f.profiles.Update(ctx, userID, kidsID, request_models.UpdateProfileRequest{Name: ptr("Teens"), IsKidsProfile: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Teens", updated.Name)
	assert.False(t, updated.IsKidsProfile)

	got, err := f.profiles.Get(ctx, userID, kidsID)
	require.NoError(t, err)
	assert.Equal(t, "Teens", got.Name)
	assert.Equal(t, "/avatars/fox.png", got.AvatarURL)

	require.NoError(t, f.profiles.Delete(ctx, userID, kidsID))
	_, err = f.profiles.Get(ctx, userID, kidsID)
	assert.ErrorIs(t, err, utils.ErrProfileNotFound)
}

func TestProfileNameValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID, mainID := f.signup(t, "a@x.com")

	for _, name := range []string{"", "   ", strings.Repeat("x", 51)} {
		_, err := f.profiles.Create(ctx, userID, request_models.CreateProfileRequest{Name: name})
		assert.ErrorIs(t, err, utils.ErrInvalidName, "name %q", name)
	}

	_, err := f.profiles.Update(ctx, userID, mainID, request_models.UpdateProfileRequest{Name: ptr(" ")})
	assert.ErrorIs(t, err, utils.ErrBadRequest)

	got, err := f.profiles.Get(ctx, userID, mainID)
	require.NoError(t, err)
	assert.Equal(t, db_models.DefaultProfileName, got.Name)
}

func TestProfileOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, aliceProfile := f.signup(t, "alice@x.com")
	bob, _ := f.signup(t, "bob@x.com")

	_, err := f.profiles.Get(ctx, bob, aliceProfile)
	assert.ErrorIs(t, err, utils.ErrProfileAccessDenied)
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	_, err = f.profiles.Update(ctx, bob, aliceProfile, request_models.UpdateProfileRequest{Name: ptr("mine")})
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	assert.ErrorIs(t, f.profiles.Delete(ctx, bob, aliceProfile), utils.ErrUnauthorized)

	_, err = f.profiles.Get(ctx, bob, uuid.New())
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestProfileLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID, _ := f.signup(t, "a@x.com")

	for i := 0; i < 4; i++ {
		_, err := f.profiles.Create(ctx, userID, request_models.CreateProfileRequest{Name: "p"})
		require.NoError(t, err)
	}
	_, err := f.profiles.Create(ctx, userID, request_models.CreateProfileRequest{Name: "sixth"})
	assert.ErrorIs(t, err, utils.ErrProfileLimitReached)
	assert.ErrorIs(t, err, utils.ErrConflict)

	limits, err := f.profiles.Limits(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 5, limits.Current)
	assert.Equal(t, 5, limits.Max)
}

func TestDeleteLastProfileConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID, mainID := f.signup(t, "a@x.com")

	err := f.profiles.Delete(ctx, userID, mainID)
	assert.ErrorIs(t, err, utils.ErrLastProfile)
	assert.ErrorIs(t, err, utils.ErrConflict)

	list, err := f.profiles.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDeleteProfileLeavesNoWatchState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID, _ := f.signup(t, "a@x.com")

	second, err := f.profiles.Create(ctx, userID, request_models.CreateProfileRequest{Name: "second"})
	require.NoError(t, err)
	secondID := uuid.MustParse(second.ID)

	_, err = f.watch.AddToWatchlist(ctx, userID, secondID, "42")
	require.NoError(t, err)
	_, err = f.watch.UpdateWatchHistory(ctx, userID, secondID, request_models.WatchHistoryRequest{ContentID: "42", WatchedDuration: 30})
	require.NoError(t, err)

	require.NoError(t, f.profiles.Delete(ctx, userID, secondID))

	_, err = f.watch.GetWatchlist(ctx, userID, secondID)
	assert.ErrorIs(t, err, utils.ErrProfileNotFound)

	ws := f.store.WatchState()
	entries, err := ws.ListWatchlist(ctx, secondID)
	require.NoError(t, err)
	assert.Empty(t, entries)
	history, err := ws.ListHistory(ctx, secondID, false, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestProfileCreatedAtIsSet(t *testing.T) {
	f := newFixture(t)
	userID, _ := f.signup(t, "a@x.com")

	list, err := f.profiles.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.WithinDuration(t, time.Now(), list[0].CreatedAt, time.Minute)
}
