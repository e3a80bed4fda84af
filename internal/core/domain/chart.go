package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// Candidate is a (title, artist) pair scraped from the chart source,
// not yet resolved against the catalog.
type Candidate struct {
	Title  string
	Artist string
}

// Key returns the candidate's natural key.
func (c Candidate) Key() NaturalKey {
	return NewNaturalKey(c.Title, c.Artist)
}

// NaturalKey is the case-folded, whitespace-trimmed (title, artist) pair
// that ties chart entries and feature vectors together across runs.
type NaturalKey struct {
	Title  string
	Artist string
}

// NewNaturalKey normalises a title and artist.
func NewNaturalKey(title, artist string) NaturalKey {
	return NaturalKey{
		Title:  normalise(title),
		Artist: normalise(artist),
	}
}

// Valid returns true if both halves of the key are non-empty.
func (k NaturalKey) Valid() bool {
	return k.Title != "" && k.Artist != ""
}

// String returns "title by artist".
func (k NaturalKey) String() string {
	return k.Title + " by " + k.Artist
}

// normalise trims and case-folds s.
// A Caser holds state, so one is built per call.
func normalise(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// ChartEntry is a stored chart row, unique by natural key.
type ChartEntry struct {
	ID     int64
	Title  string
	Artist string
}

// Key returns the entry's natural key.
func (e ChartEntry) Key() NaturalKey {
	return NewNaturalKey(e.Title, e.Artist)
}
