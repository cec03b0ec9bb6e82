package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"streamflix/internal/models/db_models"
	"streamflix/internal/models/request_models"
	"streamflix/pkg/utils"
)

func TestSignup_CreatesUserAndDefaultProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.accounts.Signup(ctx, request_models.SignUpRequest{Email: " A@x.com ", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", resp.User.Email)
	assert.Equal(t, db_models.DefaultPlanCode, resp.User.SubscriptionPlan)
	require.Len(t, resp.User.Profiles, 1)
	profile := resp.User.Profiles[0]
	assert.Equal(t, db_models.DefaultProfileName, profile.Name)
	assert.Equal(t, db_models.DefaultAvatarURL, profile.AvatarURL)
	assert.False(t, profile.IsKidsProfile)

	claims, err := f.tokens.Parse(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.Subject)
	assert.Equal(t, "a@x.com", claims.Email)

	userID := uuid.MustParse(resp.User.ID)
	count, err := f.store.Profiles().CountByOwner(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AuthEvents.WithLabelValues("signup", "ok")))
}

func TestSignup_DuplicateEmailConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID, _ := f.signup(t, "a@x.com")

	_, err := f.accounts.Signup(ctx, request_models.SignUpRequest{Email: "a@x.com", Password: "other-pass"})
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)
	assert.ErrorIs(t, err, utils.ErrConflict)

	count, err := f.store.Profiles().CountByOwner(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AuthEvents.WithLabelValues("signup", "error")))
}

func TestSignup_Plan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.accounts.Signup(ctx, request_models.SignUpRequest{Email: "p@x.com", Password: "secret1", Plan: "premium"})
	require.NoError(t, err)
	assert.Equal(t, db_models.PlanPremium, resp.User.SubscriptionPlan)

	_, err = f.accounts.Signup(ctx, request_models.SignUpRequest{Email: "q@x.com", Password: "secret1", Plan: "platinum"})
	assert.ErrorIs(t, err, utils.ErrUnknownPlan)

	user, err := f.store.Users().FindByEmail(ctx, "q@x.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID, _ := f.signup(t, "a@x.com")

	resp, err := f.accounts.Login(ctx, request_models.LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, userID.String(), resp.User.ID)
	require.Len(t, resp.User.Profiles, 1)

	claims, err := f.tokens.Parse(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, utils.DefaultTokenTTL, claims.ExpiresAt.Sub(claims.IssuedAt.Time))

	cases := map[string]request_models.LoginRequest{
		"wrong password": {Email: "a@x.com", Password: "secret2"},
		"unknown email":  {Email: "b@x.com", Password: "secret1"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			resp, err := f.accounts.Login(ctx, req)
			assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
			assert.ErrorIs(t, err, utils.ErrUnauthorized)
			assert.Nil(t, resp)
		})
	}
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID, profileID := f.signup(t, "a@x.com")

	me, err := f.accounts.Me(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", me.Email)
	require.Len(t, me.Profiles, 1)
	assert.Equal(t, profileID.String(), me.Profiles[0].ID)

	_, err = f.accounts.Me(ctx, uuid.New())
	assert.ErrorIs(t, err, utils.ErrAccountNotFound)
}
