// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package services

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/vodarchive/internal/importer"
	"github.com/tomtom215/vodarchive/internal/logging"
)

// LegacyImporter is satisfied by *importer.Importer.
type LegacyImporter interface {
	ImportFile(ctx context.Context, path string) (*importer.Stats, error)
}

// ImportService runs the legacy archive import once at startup.
//
// A failed import is returned so suture retries it; the importer resumes
// from its saved progress. After a successful import the service returns
// suture.ErrDoNotRestart and leaves the tree.
type ImportService struct {
	importer LegacyImporter
	path     string
	name     string
}

// NewImportService wraps imp for the archive at path.
func NewImportService(imp LegacyImporter, path string) *ImportService {
	return &ImportService{
		importer: imp,
		path:     path,
		name:     "legacy-import",
	}
}

// Serve implements suture.Service.
func (s *ImportService) Serve(ctx context.Context) error {
	logging.Info().Str("path", s.path).Msg("Starting legacy archive import")

	stats, err := s.importer.ImportFile(ctx, s.path)
	if err != nil {
		if ctx.Err() != nil {
			logging.Info().Msg("Legacy import interrupted by shutdown; progress is kept")
			return ctx.Err()
		}
		return fmt.Errorf("legacy import failed: %w", err)
	}

	logging.Info().Str("summary", stats.String()).Msg("Legacy import finished")
	return suture.ErrDoNotRestart
}

// String names the service in supervisor logs.
func (s *ImportService) String() string {
	return s.name
}
