package model

import (
	"strings"

	"github.com/google/uuid"
)

// Record tables
const (
	TableEvent        = "event"
	TableMatch        = "match"
	TableMatchType    = "match_type"
	TableStipulation  = "stipulation"
	TableTitle        = "title"
	TableChampionship = "championship"
	TableWrestler     = "wrestler"
	TableReferee      = "referee"
)

// NewID returns a fresh "table:key" record id.
func NewID(table string) string {
	return table + ":" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// SlugID returns the deterministic record id for catalog-backed tables.
func SlugID(table, slug string) string {
	return table + ":" + slug
}

// SplitID splits a "table:key" record id. ok is false when id has no table part.
func SplitID(id string) (table, key string, ok bool) {
	table, key, ok = strings.Cut(id, ":")
	if !ok || table == "" || key == "" {
		return "", "", false
	}
	return table, key, true
}

// UniqueIDs removes duplicate ids, keeping the first occurrence of each.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
