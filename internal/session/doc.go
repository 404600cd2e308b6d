// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the signed-in state of the Jarvis client.
//
// A session is the bearer token issued by POST /api/login plus the profile of
// its owner. It is stored in a 0600 credential file so the TUI and the CLI
// subcommands share one login.
//
// # Key Types
//
//   - Store: reads and writes the credential file
//   - Manager: login, restore, logout and 401 teardown
//
// # Usage
//
//	mgr := session.NewManager(client, session.NewStore(config.SessionPath()), logger)
//	mgr.OnLogout(func(r session.Reason) { ... })
//	user, err := mgr.Restore(ctx)
//	if errors.Is(err, session.ErrNotLoggedIn) {
//	    user, err = mgr.Login(ctx, email, password)
//	}
//
// Any 401 from the API clears the credential file and fires the logout
// callback. Watch tears the session down when another process logs out.
package session
