// Package domain defines the core business entities for chartmix.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - Candidate: A (title, artist) pair scraped from the chart
//   - NaturalKey: The case-folded identity shared by entries and features
//   - ChartEntry: A stored chart row
//   - AudioFeatures / FeatureVector: Catalog features and their stored form
//   - RunReport: The outcome of one pipeline run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, golang.org/x/text
//   - Cannot Import: Any internal/ package
package domain
