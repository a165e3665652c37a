// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	minJWTSecretLength      = 32
	minEditorPasswordLength = 8
)

// Validate checks struct tags and the cross-field rules tags cannot express.
// Missing Twitch credentials are deliberately not an error here: the archive
// can still be browsed, and a sync attempt reports them as a configuration error.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return formatFieldErrors(fieldErrs)
		}
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateSync()
}

func (c *Config) validateSecurity() error {
	if !c.Security.EditorEnabled() {
		return nil
	}
	if len(c.Security.EditorPassword) < minEditorPasswordLength {
		return fmt.Errorf("EDITOR_PASSWORD must be at least %d characters", minEditorPasswordLength)
	}
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters when EDITOR_PASSWORD is set", minJWTSecretLength)
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.ErrorLookback > c.Sync.Lookback {
		return fmt.Errorf("SYNC_ERROR_LOOKBACK (%s) must not exceed SYNC_LOOKBACK (%s)", c.Sync.ErrorLookback, c.Sync.Lookback)
	}
	return nil
}

func formatFieldErrors(errs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %s (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
