// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_Validate(t *testing.T) {
	tests := []struct {
		name      string
		form      Login
		badFields []string
	}{
		{"ok", Login{Email: " ada@example.com ", Password: "pw"}, nil},
		{"empty", Login{}, []string{"email", "password"}},
		{"bad email", Login{Email: "ada", Password: "pw"}, []string{"email"}},
		{"display name form rejected", Login{Email: "Ada <ada@example.com>", Password: "pw"}, []string{"email"}},
		{"no tld", Login{Email: "ada@localhost", Password: "pw"}, []string{"email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.form.Validate()
			if tt.badFields == nil {
				require.NoError(t, err)
				assert.Equal(t, "ada@example.com", got.Email)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			var es Errors
			require.True(t, errors.As(err, &es))
			require.Len(t, es, len(tt.badFields))
			for i, f := range tt.badFields {
				assert.Equal(t, f, es[i].Field)
			}
		})
	}
}

func TestRegister_Validate(t *testing.T) {
	_, err := Register{Name: "Grace", Email: "g@example.com", Password: "a", ConfirmPassword: "b"}.Validate()
	var es Errors
	require.True(t, errors.As(err, &es))
	assert.Equal(t, "does not match password", es.Field("confirm_password"))

	_, err = Register{Email: "g@example.com"}.Validate()
	require.True(t, errors.As(err, &es))
	assert.Equal(t, "is required", es.Field("name"))
	assert.Equal(t, "is required", es.Field("password"))
	assert.Empty(t, es.Field("confirm_password"), "mismatch is only reported once a password is given")

	got, err := Register{Name: " José ", Email: "j@example.com", Password: "x", ConfirmPassword: "x"}.Validate()
	require.NoError(t, err)
	assert.Equal(t, "José", got.Name)
}

func TestTeamAndTitle(t *testing.T) {
	_, err := Team{Name: "   "}.Validate()
	assert.ErrorIs(t, err, ErrInvalid)

	team, err := Team{Name: " Sales ", Description: " east "}.Validate()
	require.NoError(t, err)
	assert.Equal(t, Team{Name: "Sales", Description: "east"}, team)

	_, err = Title("")
	assert.ErrorIs(t, err, ErrInvalid)
	title, err := Title("  Q3 review ")
	require.NoError(t, err)
	assert.Equal(t, "Q3 review", title)
}

func TestError_Messages(t *testing.T) {
	es := Errors{{Field: "email", Message: "is required"}, {Field: "password", Message: "is required"}}
	assert.Equal(t, "email: is required; password: is required", es.Error())
	assert.False(t, errors.Is(Errors(nil), ErrInvalid))
	assert.True(t, errors.Is(es[0], ErrInvalid))
}
