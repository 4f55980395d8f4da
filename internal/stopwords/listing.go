package stopwords

import (
	"context"
	"sort"
	"time"
)

// MaxListed is the largest list shown term by term; longer lists only report
// their size.
const MaxListed = 50

type Listing struct {
	Count int `json:"count"`
	// LastModified is nil for sources without a modification time.
	LastModified *time.Time `json:"last_modified,omitempty"`
	Terms        []string   `json:"terms,omitempty"`
	Truncated    bool       `json:"truncated"`
}

type statter interface {
	Stat() Info
}

// List builds the admin view of the configured list. Terms are shown as
// stored (not normalized) and sorted.
func List(ctx context.Context, src Source) Listing {
	var listing Listing
	if s, ok := src.(statter); ok {
		if info := s.Stat(); info.Exists {
			modified := info.LastModified
			listing.LastModified = &modified
		}
	}
	if src == nil {
		return listing
	}

	lines, err := src.Lines(ctx)
	if err != nil {
		return listing
	}
	terms := make([]string, 0, len(lines))
	for _, line := range lines {
		if normalizeTerm(line) == "" {
			continue
		}
		terms = append(terms, line)
	}

	listing.Count = len(terms)
	if listing.Count > MaxListed {
		listing.Truncated = true
		return listing
	}
	sort.Strings(terms)
	listing.Terms = terms
	return listing
}
