package service

import (
	"context"
	"testing"

	"github.com/eliteshop/storefront/internal/auth"
	"github.com/eliteshop/storefront/internal/common/cnst"
	"github.com/eliteshop/storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUpAfterBootstrapIsPlainUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	users, err := f.store.Users().List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, model.RoleMainAdmin, users[0].Role)
	assert.Equal(t, "saminsingdho@gmail.com", users[0].Email)

	u, err := f.svc.SignUp(ctx, f.scope, SignUpInput{Username: "neo", Email: " Neo@Matrix.io ", Password: "redpill"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.Regexp(t, `^U-[0-9A-Z]{9}$`, u.ID)
	assert.Equal(t, "Neo@Matrix.io", u.Email)
	assert.True(t, auth.IsBcryptHash(u.PasswordHash))
	assert.Equal(t, testNow.UnixMilli(), u.CreatedAt)

	cur, err := f.svc.CurrentUser(ctx, f.scope)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, u.ID, cur.ID)
}

func TestSignUpIntoEmptyUsersBecomesMainAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.store.Users().Mutate(ctx, func([]model.User) ([]model.User, bool, error) {
		return []model.User{}, true, nil
	}))

	u, err := f.svc.SignUp(ctx, f.scope, SignUpInput{Username: "first", Email: "first@x.io", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleMainAdmin, u.Role)
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signUp(t, "trinity")

	_, err := f.svc.SignUp(ctx, f.scope, SignUpInput{Username: "other", Email: "TRINITY@example.com", Password: "x"})
	assert.ErrorIs(t, err, cnst.ErrEmailExists)

	users, err := f.store.Users().List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	cur, err := f.svc.CurrentUser(ctx, f.scope)
	require.NoError(t, err)
	assert.Nil(t, cur)
}

func TestSignUpValidation(t *testing.T) {
	f := newFixture(t)
	tests := []SignUpInput{
		{Username: "", Email: "a@b.io", Password: "x"},
		{Username: "a", Email: "not-an-email", Password: "x"},
		{Username: "a", Email: "a@b.io", Password: ""},
	}
	for _, in := range tests {
		_, err := f.svc.SignUp(context.Background(), f.scope, in)
		assert.ErrorIs(t, err, cnst.ErrInvalidInput, "%+v", in)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	neo := f.signUp(t, "neo")

	u, err := f.svc.Login(ctx, f.scope, LoginInput{Identifier: "NEO", Password: "secret-neo"})
	require.NoError(t, err)
	assert.Equal(t, neo.ID, u.ID)

	u, err = f.svc.Login(ctx, f.scope, LoginInput{Identifier: "neo@EXAMPLE.com", Password: "secret-neo"})
	require.NoError(t, err)
	assert.Equal(t, neo.ID, u.ID)

	_, err = f.svc.Login(ctx, f.scope, LoginInput{Identifier: "neo", Password: "wrong"})
	assert.ErrorIs(t, err, cnst.ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, f.scope, LoginInput{Identifier: "ghost", Password: "secret-neo"})
	assert.ErrorIs(t, err, cnst.ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, f.scope, LoginInput{})
	assert.ErrorIs(t, err, cnst.ErrInvalidCredentials)

	admin, err := f.svc.Login(ctx, f.scope, LoginInput{Identifier: "samin080g", Password: adminPassword})
	require.NoError(t, err)
	assert.Equal(t, model.RoleMainAdmin, admin.Role)

	require.NoError(t, f.svc.Logout(ctx, f.scope))
	_, err = f.svc.RequireUser(ctx, f.scope)
	assert.ErrorIs(t, err, cnst.ErrNotAuthenticated)
}

func TestLoginUpgradesLegacyPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.store.Users().Upsert(ctx, model.User{
		ID: "U-LEGACY", Username: "old", Email: "old@x.io", PasswordHash: "plaintext", Role: model.RoleUser,
	}))

	_, err := f.svc.Login(ctx, f.scope, LoginInput{Identifier: "old", Password: "plaintext"})
	require.NoError(t, err)

	u, err := f.store.Users().FindByID(ctx, "U-LEGACY")
	require.NoError(t, err)
	assert.True(t, auth.IsBcryptHash(u.PasswordHash))

	_, err = f.svc.Login(ctx, f.scope, LoginInput{Identifier: "old", Password: "plaintext"})
	assert.NoError(t, err)
}

func TestUnlockAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.admin(t)
	user := f.signUp(t, "neo")

	_, err := f.svc.UnlockAdmin(ctx, user, adminCode)
	assert.ErrorIs(t, err, cnst.ErrForbidden)
	_, err = f.svc.UnlockAdmin(ctx, nil, adminCode)
	assert.ErrorIs(t, err, cnst.ErrNotAuthenticated)
	_, err = f.svc.UnlockAdmin(ctx, admin, "000000")
	assert.ErrorIs(t, err, cnst.ErrInvalidAdminCode)

	token, err := f.svc.UnlockAdmin(ctx, admin, " 474001 ")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, f.svc.AdminGateEnabled())

	assert.NoError(t, f.svc.VerifyAdminToken(admin, token))
	assert.ErrorIs(t, f.svc.VerifyAdminToken(admin, "garbage"), cnst.ErrForbidden)

	other := *admin
	other.ID = "ADMIN-2"
	assert.ErrorIs(t, f.svc.VerifyAdminToken(&other, token), cnst.ErrForbidden)
	assert.ErrorIs(t, f.svc.VerifyAdminToken(user, token), cnst.ErrForbidden)
}
