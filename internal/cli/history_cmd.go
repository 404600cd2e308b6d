// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_cmd.go - Local chat transcripts. These commands never contact
// the server.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kouponize121/Jarvis-AI/internal/storage"
)

// HistoryDeleteData is returned by "history delete" and "history clear".
type HistoryDeleteData struct {
	Deleted int    `json:"deleted"`
	ID      string `json:"id,omitempty"`
}

// HandleHistory handles "jarvis history [list|show|delete|clear]".
func HandleHistory(ctx context.Context, e *Env) error {
	store, err := e.OpenHistory()
	if err != nil {
		return err
	}
	if store == nil {
		return &ValidationError{
			Field:   "history.enabled",
			Reason:  "chat history is turned off",
			Example: "jarvis config set history.enabled true",
		}
	}
	defer store.Close()

	p := e.Args.Parser()
	switch sub := p.Subcommand(); sub {
	case "", "list", "ls":
		limit := p.FlagIntOrDefault("limit", 20)
		if p.BoolFlag("all") {
			limit = 0
		}
		metas, err := store.List(ctx, storage.ListOptions{
			Limit:     limit,
			UserEmail: p.Flag("user"),
			Query:     p.Flag("search"),
		})
		if err != nil {
			return err
		}
		return e.emit("history", metas, func(w io.Writer) {
			fmt.Fprint(w, storage.FormatList(metas))
			if len(metas) == 0 {
				fmt.Fprintln(w)
			}
		})

	case "show", "export":
		id := p.Positional(1)
		if id == "" {
			return ErrMissingArgument("id", "jarvis history show 3f2a")
		}
		t, err := store.Load(ctx, id)
		if err != nil {
			return historyErr(err, id)
		}
		return e.emit("history", HistoryShowData{Transcript: t}, func(w io.Writer) {
			md := storage.ExportMarkdown(t)
			if sub == "show" {
				md = e.renderMarkdown(md)
			}
			fmt.Fprint(w, md)
		})

	case "delete", "rm":
		id := p.Positional(1)
		if id == "" {
			return ErrMissingArgument("id", "jarvis history delete 3f2a")
		}
		if err := store.Delete(ctx, id); err != nil {
			return historyErr(err, id)
		}
		return e.emit("history", HistoryDeleteData{Deleted: 1, ID: id}, func(w io.Writer) {
			fmt.Fprintf(w, "Deleted chat %s\n", id)
		})

	case "clear":
		n, err := store.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			ok, err := e.Confirm(fmt.Sprintf("Delete all %d saved chats.", n), p.BoolFlag("yes", "y"))
			if err != nil {
				return err
			}
			if !ok {
				return errCancelled
			}
			if err := store.Clear(ctx); err != nil {
				return err
			}
		}
		return e.emit("history", HistoryDeleteData{Deleted: n}, func(w io.Writer) {
			fmt.Fprintf(w, "Deleted %d saved chats\n", n)
		})

	default:
		return ErrUnknownSubcommand("history", sub)
	}
}

func historyErr(err error, id string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return &NotFoundError{Resource: "chat", ID: id}
	}
	return err
}
