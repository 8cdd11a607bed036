// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pdiddy/biblioscope/pkg/types"
)

// Scopus response field names.
const (
	fieldResults = "search-results"
	fieldTotal   = "opensearch:totalResults"
	fieldEntry   = "entry"
	fieldError   = "error"
	fieldTitle   = "dc:title"
	fieldCreator = "dc:creator"
	fieldJournal = "prism:publicationName"
	fieldDate    = "prism:coverDate"
	fieldDOI     = "prism:doi"
)

// Normalize converts a Scopus response into a ResultSet. It never fails:
// a missing or malformed response yields TotalCount "0" and no records, and
// missing entry fields are replaced by the fallbacks in package types.
func Normalize(raw RawResponse) types.ResultSet {
	empty := types.ResultSet{TotalCount: "0"}

	results, ok := raw[fieldResults].(map[string]any)
	if !ok {
		return empty
	}

	set := types.ResultSet{TotalCount: totalCount(results[fieldTotal])}

	entries, ok := results[fieldEntry].([]any)
	if !ok {
		return set
	}
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if isEmptyMarker(entry) {
			continue
		}
		set.Records = append(set.Records, toRecord(entry))
	}
	return set
}

// recordFields are the entry fields that make up a ResultRecord.
var recordFields = []string{fieldTitle, fieldCreator, fieldJournal, fieldDate, fieldDOI}

// isEmptyMarker reports whether entry is the placeholder Scopus sends for an
// empty result set: an "error" message and none of the record fields.
func isEmptyMarker(entry map[string]any) bool {
	if _, ok := entry[fieldError]; !ok {
		return false
	}
	for _, f := range recordFields {
		if _, ok := entry[f]; ok {
			return false
		}
	}
	return true
}

func toRecord(entry map[string]any) types.ResultRecord {
	r := types.ResultRecord{
		Title:   stringOr(entry, fieldTitle, types.NoTitle),
		Author:  stringOr(entry, fieldCreator, types.NoAuthor),
		Journal: stringOr(entry, fieldJournal, types.NoJournal),
		Year:    types.NoYear,
		DOI:     stringOr(entry, fieldDOI, types.NoDOI),
	}
	if date := stringOr(entry, fieldDate, ""); date != "" {
		r.Year = leading(date, 4)
	}
	return r
}

// stringOr returns entry[key] when it is a non-blank string, else fallback.
func stringOr(entry map[string]any, key, fallback string) string {
	s, ok := entry[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// leading returns the first n characters of s, or all of s if shorter.
func leading(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// totalCount renders opensearch:totalResults, which Scopus sends as a string
// but which may arrive as a number.
func totalCount(v any) string {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return "0"
		}
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return "0"
	}
}
