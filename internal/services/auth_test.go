package services

import (
	"context"
	"testing"
	"time"

	"alexandread/internal/models"
	"alexandread/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccounts()
	svc := NewAuthService(accounts, testSecret, time.Hour)

	genres := models.GenreList{"SF", "Classic"}
	res, err := svc.Register(ctx, models.RegisterRequest{
		Email:           "  Reader@Example.com ",
		Password:        "secret1",
		Pseudo:          "bookworm",
		FavouriteAuthor: ptr("  Asimov "),
		FavouriteGenres: &genres,
		DateOfBirth:     ptr("1990-05-17"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, "reader@example.com", res.Profile.Email)
	assert.Equal(t, models.RoleUser, res.Profile.Role)
	assert.Equal(t, "Asimov", *res.Profile.FavouriteAuthor)
	assert.Equal(t, []string{"SF", "Classic"}, res.Profile.FavouriteGenres)
	assert.Equal(t, "1990-05-17", res.Profile.DateOfBirth.String())
	assert.NotEqual(t, "secret1", res.Profile.PasswordHash)

	claims, err := utils.ParseToken(testSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Profile.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)

	login, err := svc.Login(ctx, models.LoginRequest{Email: "READER@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, res.Profile.ID, login.Profile.ID)
}

func TestAuthService_RegisterErrors(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeAccounts(), testSecret, time.Hour)

	_, err := svc.Register(ctx, models.RegisterRequest{Email: "a@b.io", Password: "secret1", Pseudo: "a"})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   models.RegisterRequest
		kind error
	}{
		{"missing pseudo", models.RegisterRequest{Email: "c@d.io", Password: "secret1"}, ErrValidation},
		{"short password", models.RegisterRequest{Email: "c@d.io", Password: "123", Pseudo: "c"}, ErrValidation},
		{"bad email", models.RegisterRequest{Email: "not-an-email", Password: "secret1", Pseudo: "c"}, ErrValidation},
		{"bad birth date", models.RegisterRequest{Email: "c@d.io", Password: "secret1", Pseudo: "c", DateOfBirth: ptr("17.05.1990")}, ErrValidation},
		{"duplicate email", models.RegisterRequest{Email: "A@B.io", Password: "secret1", Pseudo: "b"}, ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestAuthService_LoginErrors(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeAccounts(), testSecret, time.Hour)
	_, err := svc.Register(ctx, models.RegisterRequest{Email: "a@b.io", Password: "secret1", Pseudo: "a"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "a@b.io", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.EqualError(t, err, "Incorrect email or password.")

	_, err = svc.Login(ctx, models.LoginRequest{Email: "nobody@b.io", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "a@b.io"})
	assert.ErrorIs(t, err, ErrValidation)
}
