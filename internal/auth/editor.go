// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package auth

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/vodarchive/internal/config"
	"github.com/tomtom215/vodarchive/internal/logging"
)

var (
	// ErrEditorDisabled is returned when no editor password is configured.
	ErrEditorDisabled = errors.New("editor is disabled")

	// ErrInvalidCredentials is returned for a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// bcryptCost is the work factor for the in-memory password hash.
const bcryptCost = 12

// Editor checks the shared editor password and issues session tokens.
type Editor struct {
	passwordHash []byte // nil when disabled
	jwt          *JWTManager
}

// NewEditor hashes the configured password. An empty password yields a
// disabled editor, not an error.
func NewEditor(cfg *config.SecurityConfig) (*Editor, error) {
	if !cfg.EditorEnabled() {
		logging.Info().Msg("Editor disabled (EDITOR_PASSWORD not set)")
		return &Editor{}, nil
	}

	jwtManager, err := NewJWTManager(cfg)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.EditorPassword), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &Editor{passwordHash: hash, jwt: jwtManager}, nil
}

// Enabled reports whether editor routes are available.
func (e *Editor) Enabled() bool {
	return e.passwordHash != nil
}

// Login exchanges the editor password for a session token.
func (e *Editor) Login(password string) (string, time.Time, error) {
	if !e.Enabled() {
		return "", time.Time{}, ErrEditorDisabled
	}
	if bcrypt.CompareHashAndPassword(e.passwordHash, []byte(password)) != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return e.jwt.GenerateToken(RoleEditor)
}

// Verify validates a session token issued by Login.
func (e *Editor) Verify(token string) (*Claims, error) {
	if !e.Enabled() {
		return nil, ErrEditorDisabled
	}
	claims, err := e.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if claims.Role != RoleEditor {
		return nil, fmt.Errorf("unexpected role %q", claims.Role)
	}
	return claims, nil
}
