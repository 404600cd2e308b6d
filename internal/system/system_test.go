// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package system_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	"github.com/kouponize121/Jarvis-AI/internal/jarvistest"
	"github.com/kouponize121/Jarvis-AI/internal/system"
	"github.com/kouponize121/Jarvis-AI/internal/validate"
)

func str(s string) *string { return &s }
func num(n int) *int       { return &n }

func TestFormFromConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *api.SystemConfig
		want system.Form
	}{
		{
			name: "nil config",
			cfg:  nil,
			want: system.Form{SMTPPort: "587"},
		},
		{
			name: "nothing stored",
			cfg:  &api.SystemConfig{},
			want: system.Form{SMTPPort: "587"},
		},
		{
			name: "masked secrets shown blank",
			cfg: &api.SystemConfig{
				OpenAIKey: str("***"), SMTPHost: str("smtp.gmail.com"), SMTPPort: num(465),
				SMTPUser: str("me@gmail.com"), SMTPPass: str("***"),
			},
			want: system.Form{
				SMTPHost: "smtp.gmail.com", SMTPPort: "465", SMTPUser: "me@gmail.com",
				OpenAIKeyStored: true, SMTPPassStored: true,
			},
		},
		{
			name: "zero port uses default",
			cfg:  &api.SystemConfig{SMTPPort: num(0)},
			want: system.Form{SMTPPort: "587"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, system.FormFromConfig(tt.cfg))
		})
	}
}

func TestForm_Validate(t *testing.T) {
	tests := []struct {
		name      string
		form      system.Form
		badFields []string
	}{
		{"empty form", system.Form{}, nil},
		{"full smtp", system.Form{SMTPHost: "smtp.gmail.com", SMTPPort: "587", SMTPUser: "me@gmail.com", SMTPPass: "pw"}, nil},
		{"port zero", system.Form{SMTPPort: "0"}, []string{"smtp_port"}},
		{"port too large", system.Form{SMTPPort: "65536"}, []string{"smtp_port"}},
		{"port not a number", system.Form{SMTPPort: "abc"}, []string{"smtp_port"}},
		{"port max", system.Form{SMTPPort: "65535"}, nil},
		{"user not an email", system.Form{SMTPHost: "h", SMTPUser: "me"}, []string{"smtp_user"}},
		{"user without host", system.Form{SMTPUser: "me@gmail.com"}, []string{"smtp_host"}},
		{"password without host", system.Form{SMTPPass: "pw"}, []string{"smtp_host"}},
		{"masked key", system.Form{OpenAIKey: "***"}, []string{"openai_key"}},
		{"masked pass", system.Form{SMTPHost: "h", SMTPPass: "***"}, []string{"smtp_pass"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if len(tt.badFields) == 0 {
				assert.NoError(t, err)
				return
			}
			var verrs validate.Errors
			require.True(t, errors.As(err, &verrs), "want validate.Errors, got %v", err)
			for _, f := range tt.badFields {
				assert.NotEmpty(t, verrs.Field(f), "expected error on %s", f)
			}
			assert.Len(t, verrs, len(tt.badFields))
		})
	}
}

func TestForm_ValidateMessages(t *testing.T) {
	err := system.Form{SMTPPort: "99999", SMTPUser: "nope"}.Validate()
	var verrs validate.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "SMTP port must be a number between 1 and 65535", verrs.Field("smtp_port"))
	assert.Equal(t, "SMTP user must be a valid email address", verrs.Field("smtp_user"))
	assert.Equal(t, "SMTP host is required when an SMTP user or password is set", verrs.Field("smtp_host"))
}

func TestForm_Config(t *testing.T) {
	cfg, err := system.Form{
		OpenAIKey: " sk-test ", SMTPHost: "smtp.gmail.com", SMTPPort: "",
		SMTPUser: "me@gmail.com", SMTPPass: "pw",
	}.Config()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", *cfg.OpenAIKey)
	assert.Equal(t, 587, *cfg.SMTPPort)
	assert.Equal(t, "pw", *cfg.SMTPPass)

	cfg, err = system.Form{OpenAIKeyStored: true, SMTPPassStored: true}.Config()
	require.NoError(t, err)
	assert.Nil(t, cfg.OpenAIKey)
	assert.Nil(t, cfg.SMTPPass)
	assert.False(t, cfg.HasMaskedSecret())
}

func TestForm_Warnings(t *testing.T) {
	assert.Empty(t, system.Form{}.Warnings())
	assert.Len(t, system.Form{OpenAIKeyStored: true, SMTPPassStored: true}.Warnings(), 2)
	assert.Empty(t, system.Form{OpenAIKeyStored: true, OpenAIKey: "sk-new"}.Warnings())
}

func TestChecks(t *testing.T) {
	checks := system.Checks(&api.SystemStatus{OpenAIConnected: true, DatabaseConnected: true})
	require.Len(t, checks, 3)
	assert.Equal(t, "OpenAI API", checks[0].Name)
	assert.Equal(t, "✅ Connected", checks[0].Label())
	assert.Equal(t, "❌ Disconnected", checks[1].Label())
	assert.True(t, checks[2].OK)

	for _, c := range system.Checks(nil) {
		assert.False(t, c.OK)
	}
}

func newClient(t *testing.T) (*jarvistest.Server, *api.Client, int) {
	t.Helper()
	srv := jarvistest.New(t)
	uid := srv.AddUser("John", "john@example.com", "secret1")
	client := api.NewClient(srv.APIURL())
	client.SetToken(srv.Token(uid, time.Hour))
	return srv, client, uid
}

func TestLoadSave_RoundTrip(t *testing.T) {
	srv, client, uid := newClient(t)
	srv.SetOpenAI(true)
	ctx := context.Background()

	res, err := system.Save(ctx, client, system.Form{
		OpenAIKey: "sk-live", SMTPHost: "smtp.gmail.com", SMTPPort: "587",
		SMTPUser: "me@gmail.com", SMTPPass: "app-pw",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Message, "Configuration saved successfully!"))
	assert.True(t, res.OpenAIConnected)
	assert.Equal(t, "sk-live", srv.StoredConfig(uid)["openai_key"])

	st, form, err := system.Load(ctx, client)
	require.NoError(t, err)
	assert.True(t, st.OpenAIConnected)
	assert.True(t, form.OpenAIKeyStored)
	assert.True(t, form.SMTPPassStored)
	assert.Empty(t, form.OpenAIKey)
	assert.Equal(t, "smtp.gmail.com", form.SMTPHost)

	form.SMTPPass = "new-pw"
	_, err = system.Save(ctx, client, form)
	require.NoError(t, err)
	stored := srv.StoredConfig(uid)
	assert.Nil(t, stored["openai_key"], "blank key is sent as null")
	assert.Equal(t, "new-pw", stored["smtp_pass"])
}

func TestSave_ValidationSkipsServer(t *testing.T) {
	srv, client, _ := newClient(t)

	_, err := system.Save(context.Background(), client, system.Form{SMTPPort: "70000"})
	require.Error(t, err)
	assert.Equal(t, 0, srv.Calls(http.MethodPost, "/api/config"))
	assert.Equal(t, "Failed to save configuration: SMTP port must be a number between 1 and 65535", system.SaveFailure(err))
}

func TestSave_ServerError(t *testing.T) {
	srv, client, _ := newClient(t)
	srv.FailNext(http.MethodPost, "/api/config", http.StatusInternalServerError, "Failed to save configuration: disk full")

	_, err := system.Save(context.Background(), client, system.Form{})
	require.Error(t, err)
	assert.Contains(t, system.SaveFailure(err), "disk full")
}

func TestLoad_PartialFailure(t *testing.T) {
	srv, client, _ := newClient(t)
	srv.FailNext(http.MethodGet, "/api/system/status", http.StatusInternalServerError, "down")

	st, form, err := system.Load(context.Background(), client)
	require.Error(t, err)
	assert.Nil(t, st)
	assert.Equal(t, "587", form.SMTPPort)
}
