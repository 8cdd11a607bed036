// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for biblioscope.
// ResultRecord and ResultSet are the display-ready output of a search;
// Config and ClientConfig carry the settings resolved at startup.
package types

// Fallback values used when a Scopus entry omits a field.
const (
	NoTitle   = "No title available"
	NoAuthor  = "No author available"
	NoJournal = "No journal available"
	NoYear    = "Unknown"
	NoDOI     = "No DOI"
)

// ResultRecord is one normalized Scopus entry. Every field is populated:
// absent source values are replaced by the fallbacks above.
type ResultRecord struct {
	// Title is the document title (dc:title).
	Title string `json:"title" yaml:"title"`

	// Author is the first author as reported by Scopus (dc:creator).
	Author string `json:"author" yaml:"author"`

	// Journal is the source title (prism:publicationName).
	Journal string `json:"journal" yaml:"journal"`

	// Year is the leading part of prism:coverDate, normally four digits.
	Year string `json:"year" yaml:"year"`

	// DOI is the bare DOI (prism:doi).
	DOI string `json:"doi" yaml:"doi"`
}

// ResultSet is the outcome of one search. Records keep provider order.
type ResultSet struct {
	// TotalCount is the provider's total hit count, which may exceed len(Records).
	TotalCount string `json:"total_count" yaml:"total_count"`

	Records []ResultRecord `json:"records" yaml:"records"`
}

// Empty reports whether the set holds no records.
func (s ResultSet) Empty() bool {
	return len(s.Records) == 0
}
