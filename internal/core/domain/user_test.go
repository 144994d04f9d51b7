package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"client", RoleClient, false},
		{"attorney", RoleAttorney, false},
		{"admin", RoleAdmin, false},
		{"ADMIN", "", true},
		{"Client", "", true},
		{" attorney ", "", true},
		{"admin\n", "", true},
		{"", "", true},
		{"superuser", "", true},
		{"lawyer", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRole)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@x.com", NormalizeEmail("  Ana@X.com "))
	assert.Equal(t, "a@x.com", NormalizeEmail("A@x.com"))
}

func TestUser_JSONNeverContainsHash(t *testing.T) {
	u := &User{
		ID:           "64b000000000000000000001",
		Name:         "Ana",
		Email:        "ana@x.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         RoleClient,
		CreatedAt:    time.Now(),
	}

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "$2a$10$")
	assert.NotContains(t, string(raw), "password")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "64b000000000000000000001", decoded["_id"])
	assert.Equal(t, "client", decoded["role"])
}

func TestUser_Public(t *testing.T) {
	u := &User{Name: "Ana", PasswordHash: "hash"}
	pub := u.Public()
	assert.Empty(t, pub.PasswordHash)
	assert.Equal(t, "hash", u.PasswordHash, "original must be untouched")
	assert.Nil(t, (*User)(nil).Public())
}

func TestNotFoundErrorsMatchErrNotFound(t *testing.T) {
	for _, err := range []error{ErrUserNotFound, ErrLawyerNotFound, ErrSectorNotFound, ErrBookingNotFound} {
		assert.True(t, errors.Is(err, ErrNotFound), err.Error())
	}
	assert.False(t, errors.Is(ErrUserNotFound, ErrLawyerNotFound))
	assert.True(t, errors.Is(ErrNotProfileOwner, ErrForbidden))
}

func TestAuthenticatedIdentity_HasRole(t *testing.T) {
	id := AuthenticatedIdentity{Role: RoleAttorney, TokenRole: RoleClient}
	assert.True(t, id.HasRole(RoleAttorney, RoleAdmin))
	assert.False(t, id.HasRole(RoleClient))
}
