// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status_cmd.go - Server health and integration settings.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	"github.com/kouponize121/Jarvis-AI/internal/system"
)

// HandleStatus shows the OpenAI, SMTP and database indicators.
func HandleStatus(ctx context.Context, e *Env) error {
	if _, err := e.requireLogin(ctx); err != nil {
		return err
	}
	st, err := e.Client.SystemStatus(ctx)
	if err != nil {
		return err
	}
	return e.emit("status", st, func(w io.Writer) {
		fmt.Fprintln(w, TitleStyle.Render("System Status"))
		fmt.Fprintln(w, RenderSeparator(40))
		for _, c := range system.Checks(st) {
			fmt.Fprintf(w, "%s %s\n", RenderLabel(c.Name+":"), c.Label())
		}
		if st.Message != "" {
			fmt.Fprintln(w)
			fmt.Fprintln(w, DimStyle.Render(st.Message))
		}
	})
}

// HandleServerConfig handles "jarvis server-config [show|set]".
func HandleServerConfig(ctx context.Context, e *Env) error {
	if _, err := e.requireLogin(ctx); err != nil {
		return err
	}
	p := e.Args.Parser()
	switch sub := p.Subcommand(); sub {
	case "", "show":
		return showServerConfig(ctx, e)
	case "set":
		return setServerConfig(ctx, e, p)
	case "guide":
		fmt.Fprintln(e.Out, system.SetupGuide)
		return nil
	default:
		return ErrUnknownSubcommand("server-config", sub)
	}
}

func showServerConfig(ctx context.Context, e *Env) error {
	cfg, err := e.Client.GetConfig(ctx)
	if err != nil {
		return err
	}
	form := system.FormFromConfig(cfg)
	data := serverConfigData(form)
	return e.emit("server-config", data, func(w io.Writer) {
		fmt.Fprintln(w, TitleStyle.Render("Server Configuration"))
		fmt.Fprintln(w, RenderSeparator(40))
		fmt.Fprintf(w, "%s %s\n", RenderLabel("OpenAI API key:"), secretState(form.OpenAIKeyStored || form.OpenAIKey != ""))
		fmt.Fprintf(w, "%s %s\n", RenderLabel("SMTP host:"), orDash(form.SMTPHost))
		fmt.Fprintf(w, "%s %s\n", RenderLabel("SMTP port:"), form.SMTPPort)
		fmt.Fprintf(w, "%s %s\n", RenderLabel("SMTP user:"), orDash(form.SMTPUser))
		fmt.Fprintf(w, "%s %s\n", RenderLabel("SMTP password:"), secretState(form.SMTPPassStored || form.SMTPPass != ""))
	})
}

// setServerConfig starts from the stored settings and applies the given
// flags. Stored secrets are write-only, so saving without re-entering them
// clears them; that needs --yes.
func setServerConfig(ctx context.Context, e *Env, p *ArgParser) error {
	cfg, err := e.Client.GetConfig(ctx)
	if err != nil {
		return err
	}
	form := system.FormFromConfig(cfg)

	changed := false
	set := func(flag string, dst *string) {
		if p.HasFlag(flag) {
			*dst = p.Flag(flag)
			changed = true
		}
	}
	set("openai-key", &form.OpenAIKey)
	set("smtp-host", &form.SMTPHost)
	set("smtp-port", &form.SMTPPort)
	set("smtp-user", &form.SMTPUser)
	set("smtp-pass", &form.SMTPPass)
	if !changed {
		return ErrMissingArgument("setting", "jarvis server-config set --openai-key sk-...")
	}

	if err := form.Validate(); err != nil {
		return err
	}
	if warnings := form.Warnings(); len(warnings) > 0 {
		ok, err := e.Confirm(strings.Join(warnings, "\n"), p.BoolFlag("yes", "y"))
		if err != nil {
			return err
		}
		if !ok {
			return errCancelled
		}
	}

	res, err := system.Save(ctx, e.Client, form)
	if err != nil {
		return err
	}
	return e.emit("server-config", res, func(w io.Writer) {
		fmt.Fprintln(w, SuccessStyle.Render(res.Message))
		printIntegration(w, "OpenAI", res.OpenAIConnected, res.OpenAIError)
		printIntegration(w, "SMTP", res.SMTPConnected, res.SMTPError)
	})
}

func printIntegration(w io.Writer, name string, ok bool, errText string) {
	line := fmt.Sprintf("%s %s", RenderLabel(name+":"), RenderCheck(ok))
	if !ok && errText != "" {
		line += " " + DimStyle.Render(errText)
	}
	fmt.Fprintln(w, line)
}

func serverConfigData(f system.Form) ServerConfigData {
	return ServerConfigData{
		OpenAIKeySet: f.OpenAIKeyStored || f.OpenAIKey != "",
		SMTPHost:     f.SMTPHost,
		SMTPPort:     f.SMTPPort,
		SMTPUser:     f.SMTPUser,
		SMTPPassSet:  f.SMTPPassStored || f.SMTPPass != "",
	}
}

func secretState(set bool) string {
	if set {
		return "configured (" + api.Masked + ")"
	}
	return "not set"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
