package domain

import "math"

// AudioFeatures is the numeric feature payload of one catalog track.
// Danceability, Tempo and Energy are required; the remaining fields are
// optional and nil when the catalog omits them.
type AudioFeatures struct {
	Danceability float64
	Tempo        float64
	Energy       float64

	Valence      *float64
	Acousticness *float64
	Loudness     *float64
	Key          *int
	Mode         *int
}

// Validate checks the required features are finite and in range.
func (f AudioFeatures) Validate() error {
	switch {
	case !finite(f.Danceability) || f.Danceability < 0 || f.Danceability > 1:
		return &FieldError{Field: "danceability", Reason: "must be within [0,1]"}
	case !finite(f.Energy) || f.Energy < 0 || f.Energy > 1:
		return &FieldError{Field: "energy", Reason: "must be within [0,1]"}
	case !finite(f.Tempo) || f.Tempo <= 0:
		return &FieldError{Field: "tempo", Reason: "must be a positive BPM value"}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Track is a catalog search match.
type Track struct {
	ID     string
	Name   string
	Artist string
}

// FeatureResult is a resolved candidate: the original title and artist
// plus the features of its top catalog match.
type FeatureResult struct {
	Title    string
	Artist   string
	TrackID  string
	Features AudioFeatures
}

// Key returns the natural key used to find the result's chart entry.
func (r FeatureResult) Key() NaturalKey {
	return NewNaturalKey(r.Title, r.Artist)
}

// FeatureVector is a stored feature row attached to a chart entry.
type FeatureVector struct {
	ID       int64
	EntryID  int64
	Features AudioFeatures
}
