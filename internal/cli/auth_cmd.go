// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - Account commands: login, register, logout, whoami and
// forgot-password.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/kouponize121/Jarvis-AI/internal/api"
)

// HandleLogin signs in and stores the session token.
//
//	jarvis login [email] [--email EMAIL]
func HandleLogin(ctx context.Context, e *Env) error {
	p := e.Args.Parser()
	email, err := e.valueOrPrompt(firstNonEmpty(p.Positional(0), p.Flag("email")), "Email")
	if err != nil {
		return err
	}
	password, err := e.readSecret("Password: ")
	if err != nil {
		return err
	}

	user, err := e.Session.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return e.emit("login", user, func(w io.Writer) {
		fmt.Fprintf(w, "%s Logged in as %s <%s>\n", SuccessStyle.Render("[OK]"), user.Name, user.Email)
	})
}

// HandleRegister creates an account. It does not sign in.
//
//	jarvis register --name NAME --email EMAIL [--question Q --answer A]
func HandleRegister(ctx context.Context, e *Env) error {
	p := e.Args.Parser()
	name, err := e.valueOrPrompt(p.Flag("name"), "Name")
	if err != nil {
		return err
	}
	email, err := e.valueOrPrompt(firstNonEmpty(p.Flag("email"), p.Positional(0)), "Email")
	if err != nil {
		return err
	}
	password, err := e.newPassword()
	if err != nil {
		return err
	}

	msg, err := e.Session.Register(ctx, api.RegisterRequest{
		Name:             name,
		Email:            email,
		Password:         password,
		SecurityQuestion: p.Flag("question"),
		SecurityAnswer:   p.Flag("answer"),
	})
	if err != nil {
		return err
	}
	return e.emit("register", MessageData{Message: msg}, func(w io.Writer) {
		fmt.Fprintln(w, SuccessStyle.Render(msg))
	})
}

// HandleLogout forgets the stored session. Logging out twice is not an error.
func HandleLogout(_ context.Context, e *Env) error {
	if err := e.Session.Logout(); err != nil {
		return err
	}
	return e.emit("logout", MessageData{Message: "Logged out"}, func(w io.Writer) {
		fmt.Fprintln(w, "Logged out")
	})
}

// HandleWhoami shows the signed-in user after confirming the token with
// the server.
func HandleWhoami(ctx context.Context, e *Env) error {
	user, err := e.requireLogin(ctx)
	if err != nil {
		return err
	}
	return e.emit("whoami", user, func(w io.Writer) {
		fmt.Fprintf(w, "%s %s\n", RenderLabel("Name:"), user.Name)
		fmt.Fprintf(w, "%s %s\n", RenderLabel("Email:"), user.Email)
		fmt.Fprintf(w, "%s %s\n", RenderLabel("Server:"), e.Client.BaseURL())
	})
}

// HandleForgotPassword resets a password with the account's security
// question.
//
//	jarvis forgot-password [email]
func HandleForgotPassword(ctx context.Context, e *Env) error {
	p := e.Args.Parser()
	email, err := e.valueOrPrompt(firstNonEmpty(p.Positional(0), p.Flag("email")), "Email")
	if err != nil {
		return err
	}
	question, err := e.Client.SecurityQuestion(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.Err, "%s %s\n", RenderLabel("Question:"), question)

	answer, err := e.valueOrPrompt(p.Flag("answer"), "Answer")
	if err != nil {
		return err
	}
	password, err := e.newPassword()
	if err != nil {
		return err
	}

	msg, err := e.Client.ResetPassword(ctx, api.PasswordResetRequest{
		Email:          email,
		SecurityAnswer: answer,
		NewPassword:    password,
	})
	if err != nil {
		return err
	}
	return e.emit("forgot-password", MessageData{Message: msg}, func(w io.Writer) {
		fmt.Fprintln(w, SuccessStyle.Render(msg))
	})
}

// newPassword reads a password, and a confirmation when on a terminal.
func (e *Env) newPassword() (string, error) {
	password, err := e.readSecret("New password: ")
	if err != nil {
		return "", err
	}
	if !e.interactive {
		return password, nil
	}
	again, err := e.readSecret("Confirm password: ")
	if err != nil {
		return "", err
	}
	if again != password {
		return "", &ValidationError{Field: "password", Reason: "passwords do not match"}
	}
	return password, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
