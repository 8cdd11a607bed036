// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/biblioscope/pkg/types"
)

// QueryFile is the on-disk form of a search and its results, so a search
// can be kept and reread without querying Scopus again.
type QueryFile struct {
	Query   QueryParams          `yaml:"query"`
	Results []types.ResultRecord `yaml:"results"`
	Summary QuerySummary         `yaml:"summary"`
}

// QueryParams stores the request in a serializable form.
type QueryParams struct {
	Text       string `yaml:"text"`
	Mode       string `yaml:"mode"`
	Expression string `yaml:"expression"`
	Count      int    `yaml:"count"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total     string    `yaml:"total"`
	Returned  int       `yaml:"returned"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves the request and its results to a YAML file.
func WriteQueryFile(path string, req Request, set types.ResultSet) error {
	qf := QueryFile{
		Query: QueryParams{
			Text:       req.Query,
			Mode:       req.Mode.String(),
			Expression: req.Expression(),
			Count:      req.Count,
		},
		Results: set.Records,
		Summary: QuerySummary{
			Total:     set.TotalCount,
			Returned:  len(set.Records),
			Timestamp: time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// Request rebuilds the search request stored in the file.
func (p QueryParams) Request() (Request, error) {
	mode, err := ParseMode(p.Mode)
	if err != nil {
		return Request{}, err
	}
	return NewRequest(p.Text, mode, p.Count), nil
}

// ResultSet rebuilds the result set stored in the file.
func (qf *QueryFile) ResultSet() types.ResultSet {
	return types.ResultSet{TotalCount: qf.Summary.Total, Records: qf.Results}
}
