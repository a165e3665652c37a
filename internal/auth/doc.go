// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

/*
Package auth gates the editor routes of the HTTP API.

There is one role, editor, behind one shared password (EDITOR_PASSWORD). A
successful login exchanges the password for a signed JWT that is sent back as
a Bearer token (or the "token" cookie) on editor requests.

Key Components:

  - JWTManager: token generation and validation using HMAC-SHA256
  - Editor: bcrypt check of the shared password, issuing tokens
  - Middleware: RequireEditor for chi route groups

Editor Disabled:

When EDITOR_PASSWORD is empty the editor is disabled. NewEditor still returns
a usable value; Login fails with ErrEditorDisabled and RequireEditor answers
every request with 503 EDITOR_DISABLED. Read-only routes are unaffected.

Usage Example:

	editor, err := auth.NewEditor(&cfg.Security)
	if err != nil {
	    log.Fatal(err)
	}
	mw := auth.NewMiddleware(editor)

	r.Group(func(r chi.Router) {
	    r.Use(mw.RequireEditor)
	    r.Post("/api/v1/sync", h.TriggerSync)
	})

Thread Safety:

Editor, JWTManager and Middleware are read-only after construction.
*/
package auth
