package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rentalconnect/rentalconnect/internal/domain"
)

func TestRegister_Succeeds(t *testing.T) {
	f := newFixture(t)
	res, err := f.auth.Register(context.Background(), RegisterInput{
		Email:     "  Alice@Example.com ",
		Password:  "password123",
		Role:      domain.RoleRenter,
		FirstName: " Alice ",
		LastName:  "Smith",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, "alice@example.com", res.User.Email)
	require.Equal(t, "Alice", res.User.FirstName)

	stored, err := f.store.Accounts().GetByID(context.Background(), res.User.ID)
	require.NoError(t, err)
	require.NotEqual(t, "password123", stored.PasswordHash)
	require.NotNil(t, stored.RenterProfile, "renters start with an empty renter profile")
	require.Zero(t, stored.RenterProfile.FeedbackCount)
}

func TestRegister_LandlordHasNoRenterProfile(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "landlord@example.com", domain.RoleLandlord)
	stored, err := f.store.Accounts().GetByID(context.Background(), id.AccountID)
	require.NoError(t, err)
	require.Nil(t, stored.RenterProfile)
}

func TestRegister_DuplicateEmailIgnoresCase(t *testing.T) {
	f := newFixture(t)
	f.register(t, "dup@example.com", domain.RoleRenter)

	_, err := f.auth.Register(context.Background(), RegisterInput{
		Email:     "DUP@example.com",
		Password:  "password123",
		Role:      domain.RoleLandlord,
		FirstName: "B",
		LastName:  "C",
	})
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestRegister_ValidatesInput(t *testing.T) {
	valid := RegisterInput{
		Email:     "ok@example.com",
		Password:  "password123",
		Role:      domain.RoleRenter,
		FirstName: "A",
		LastName:  "B",
	}
	cases := []struct {
		name  string
		field string
		edit  func(in *RegisterInput)
	}{
		{"missing email", "email", func(in *RegisterInput) { in.Email = "" }},
		{"bad email", "email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"short password", "password", func(in *RegisterInput) { in.Password = "short" }},
		{"long password", "password", func(in *RegisterInput) { in.Password = strings.Repeat("x", 73) }},
		{"bad role", "role", func(in *RegisterInput) { in.Role = "admin" }},
		{"blank first name", "firstName", func(in *RegisterInput) { in.FirstName = "  " }},
		{"missing last name", "lastName", func(in *RegisterInput) { in.LastName = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			in := valid
			tc.edit(&in)
			_, err := f.auth.Register(context.Background(), in)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			require.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestLogin_Succeeds(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "bob@example.com", domain.RoleLandlord)

	res, err := f.auth.Login(context.Background(), "BOB@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, id.AccountID, res.User.ID)
	require.Equal(t, domain.RoleLandlord, res.User.Role)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	f.register(t, "carol@example.com", domain.RoleRenter)

	_, wrongPassword := f.auth.Login(context.Background(), "carol@example.com", "wrong-password")
	_, unknownEmail := f.auth.Login(context.Background(), "nobody@example.com", "password123")

	require.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, domain.ErrInvalidCredentials)
	require.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLogin_RequiresBothFields(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Login(context.Background(), "", "password123")
	require.True(t, domain.IsValidation(err))
}

func TestLogin_ReturnsVerifiableToken(t *testing.T) {
	f := newFixture(t)
	f.register(t, "dave@example.com", domain.RoleRenter)

	res, err := f.auth.Login(context.Background(), "dave@example.com", "password123")
	require.NoError(t, err)

	id, err := f.auth.tokens.Verify(res.Token)
	require.NoError(t, err)
	require.Equal(t, res.User.ID, id.AccountID)
	require.Equal(t, domain.RoleRenter, id.Role)
}
