// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search builds Scopus query expressions, sends them to the Scopus
// search API and normalizes the response into display-ready records.
package search

import (
	"fmt"
	"strings"
)

// Mode selects how the raw query is turned into a Scopus expression.
type Mode int

const (
	General Mode = iota
	Doi
	Title
	Author
)

var modeNames = [...]string{
	General: "general",
	Doi:     "doi",
	Title:   "title",
	Author:  "author",
}

// String returns the lowercase mode name.
func (m Mode) String() string {
	if m < General || m > Author {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode converts a mode name back into a Mode. An empty name is General.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return General, nil
	}
	for m, name := range modeNames {
		if name == s {
			return Mode(m), nil
		}
	}
	return General, fmt.Errorf("unknown search mode %q", s)
}

// ResolveMode picks the mode from the CLI selector flags. When several are
// set the precedence is doi, then title, then author.
func ResolveMode(doi, title, author bool) Mode {
	switch {
	case doi:
		return Doi
	case title:
		return Title
	case author:
		return Author
	default:
		return General
	}
}

// doiPrefixes are stripped from DOI queries, in order.
var doiPrefixes = []string{
	"https://doi.org/",
	"http://dx.doi.org/",
}

// Build returns the Scopus expression for rawQuery in the given mode.
// It never validates the query; Scopus decides what is acceptable.
func Build(rawQuery string, mode Mode) string {
	switch mode {
	case Doi:
		return "DOI(" + cleanDOI(rawQuery) + ")"
	case Title:
		return "TITLE(" + rawQuery + ")"
	case Author:
		return "AUTHOR-NAME(" + rawQuery + ")"
	default:
		return rawQuery
	}
}

// cleanDOI strips URL prefixes and a leading "doi:" token (any case).
func cleanDOI(raw string) string {
	doi := strings.TrimSpace(raw)
	for _, p := range doiPrefixes {
		doi = strings.TrimPrefix(doi, p)
	}
	if len(doi) >= 4 && strings.EqualFold(doi[:4], "doi:") {
		doi = doi[4:]
	}
	return strings.TrimSpace(doi)
}

// MaxCount is the largest page size Scopus accepts.
const MaxCount = 200

// ClampCount bounds n to [1, MaxCount].
func ClampCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}

// Request is one search invocation. Build it with NewRequest.
type Request struct {
	Query string
	Mode  Mode
	Count int
}

// NewRequest returns a Request with Count clamped to [1, MaxCount].
func NewRequest(query string, mode Mode, count int) Request {
	return Request{Query: query, Mode: mode, Count: ClampCount(count)}
}

// Expression returns the Scopus expression for the request.
func (r Request) Expression() string {
	return Build(r.Query, r.Mode)
}
