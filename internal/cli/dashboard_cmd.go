// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/kouponize121/Jarvis-AI/internal/dashboard"
)

// HandleDashboard prints the four dashboard panels.
func HandleDashboard(ctx context.Context, e *Env) error {
	user, err := e.requireLogin(ctx)
	if err != nil {
		return err
	}
	snap, err := dashboard.Fetch(ctx, e.Client)
	if err != nil {
		return err
	}
	return e.emit("dashboard", snap.Data, func(w io.Writer) {
		fmt.Fprintln(w, TitleStyle.Render("Welcome back, "+user.Name))
		fmt.Fprintln(w, DimStyle.Render("Loaded at "+snap.LoadedAt.Format(dashboard.TimeLayout)))
		fmt.Fprintln(w, RenderSeparator())
		fmt.Fprint(w, dashboard.Text(snap.Panels()))
	})
}
