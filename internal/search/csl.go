package search

import (
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/biblioscope/pkg/types"
)

// CSLItem is a bibliographic entry in CSL (Citation Style Language) form,
// consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title,omitempty"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a date in CSL date-parts form.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes the records as a CSL-YAML list. Fallback placeholder
// values are left out of the items.
func FormatCSL(set types.ResultSet, w io.Writer) error {
	items := make([]CSLItem, len(set.Records))
	for i, r := range set.Records {
		items[i] = toCSLItem(r, i+1)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(r types.ResultRecord, n int) CSLItem {
	item := CSLItem{
		ID:   "scopus-" + strconv.Itoa(n),
		Type: "article-journal",
	}
	if r.Title != types.NoTitle {
		item.Title = r.Title
	}
	if r.Journal != types.NoJournal {
		item.ContainerTitle = r.Journal
	}
	if r.Author != types.NoAuthor {
		item.Author = []CSLName{parseAuthorName(r.Author)}
	}
	if r.DOI != types.NoDOI {
		item.DOI = r.DOI
		item.ID = r.DOI
	}
	if y, err := strconv.Atoi(r.Year); err == nil && len(r.Year) == 4 {
		item.Issued = &CSLDate{DateParts: [][]int{{y}}}
	}
	return item
}

// parseAuthorName splits a Scopus creator into CSL family/given parts.
// Scopus writes "Family G.", so the first comma or space separates the
// family name; a single token becomes a literal.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	if family, given, ok := strings.Cut(name, ","); ok {
		return CSLName{Family: strings.TrimSpace(family), Given: strings.TrimSpace(given)}
	}
	idx := strings.Index(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Family: name[:idx],
		Given:  strings.TrimSpace(name[idx+1:]),
	}
}
