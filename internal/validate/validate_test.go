// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Priority string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	APIKey   string `json:"openai_key" validate:"notmasked"`
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(signup{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	assert.NoError(t, err)
}

func TestStruct_CollectsAllErrors(t *testing.T) {
	err := Struct(signup{Email: "not-an-email", Password: "123", Priority: "urgent", APIKey: "***"})
	require.Error(t, err)

	var verrs Errors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 5)
	assert.Equal(t, "name is required", verrs.Field("name"))
	assert.Equal(t, "email must be a valid email", verrs.Field("email"))
	assert.Equal(t, "password must be at least 6 characters", verrs.Field("password"))
	assert.Equal(t, "priority must be one of: low, medium, high", verrs.Field("priority"))
	assert.Equal(t, "openai key still holds the masked placeholder", verrs.Field("openai_key"))
	assert.Equal(t, "", verrs.Field("missing"))
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("email", "bob@example.com", "required,email"))

	err := Var("email", "bob", "required,email")
	var verrs Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "email must be a valid email", verrs[0].Message)
}
