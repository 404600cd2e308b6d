// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage keeps chat transcripts across runs in a local SQLite
// database.
//
// A Store implements assistant.Recorder, so every message and side-log
// entry is written as it happens:
//
//	store, err := storage.Open(path, 200)
//	defer store.Close()
//	a := assistant.New(client).WithRecorder(store)
//
// List and load past chats:
//
//	metas, err := store.List(ctx, storage.ListOptions{Limit: 20})
//	t, err := store.Load(ctx, metas[0].ID)
//
// The database lives at ~/.jarvis/history.db by default.
package storage
