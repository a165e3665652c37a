// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package database

import (
	"strings"
)

// Base (version 0) column sets, in SELECT order.
var (
	baseVideoColumns = []string{"id", "twitch_id", "title", "category", "url", "created_at", "type"}
	baseClipColumns  = []string{"id", "twitch_id", "title", "category", "url", "created_at", "thumbnail_url", "vod_twitch_id", "vod_id"}
)

// SchemaDescriptor is the column set of one schema version. Reads and writes
// consult it instead of introspecting the live tables, so an older store
// simply omits the optional columns it lacks.
type SchemaDescriptor struct {
	Version int
	tables  map[string][]string
}

// DescriptorFor returns the descriptor of a schema version. Versions above
// LatestSchemaVersion are treated as the latest.
func DescriptorFor(version int) SchemaDescriptor {
	d := SchemaDescriptor{
		Version: version,
		tables: map[string][]string{
			"videos": append([]string(nil), baseVideoColumns...),
			"clips":  append([]string(nil), baseClipColumns...),
		},
	}
	for _, m := range migrations {
		if m.Version > version {
			break
		}
		for _, c := range m.Columns {
			d.tables[m.Table] = append(d.tables[m.Table], c.Name)
		}
	}
	return d
}

// Columns returns the columns of table in SELECT order.
func (d SchemaDescriptor) Columns(table string) []string {
	return append([]string(nil), d.tables[table]...)
}

// Has reports whether table has column in this version.
func (d SchemaDescriptor) Has(table, column string) bool {
	for _, c := range d.tables[table] {
		if c == column {
			return true
		}
	}
	return false
}

// SupportedSchemaVersions returns every schema version this build can operate on.
func SupportedSchemaVersions() []int {
	versions := []int{0}
	for _, m := range migrations {
		versions = append(versions, m.Version)
	}
	return versions
}

// columnSet builds an INSERT or SELECT column list filtered by the
// descriptor. Values for unsupported columns are dropped.
type columnSet struct {
	names  []string
	values []interface{}
}

func (cs *columnSet) add(d SchemaDescriptor, table, name string, value interface{}) {
	if !d.Has(table, name) {
		return
	}
	cs.names = append(cs.names, name)
	cs.values = append(cs.values, value)
}

func (cs *columnSet) insertSQL(table string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cs.names)), ", ")
	return "INSERT INTO " + table + " (" + strings.Join(cs.names, ", ") + ") VALUES (" + placeholders + ")"
}

// selectList renders cs.names with an optional table alias.
func (cs *columnSet) selectList(alias string) string {
	if alias == "" {
		return strings.Join(cs.names, ", ")
	}
	parts := make([]string, len(cs.names))
	for i, n := range cs.names {
		parts[i] = alias + "." + n
	}
	return strings.Join(parts, ", ")
}
