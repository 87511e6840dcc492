// Package loader declares the shape of parsed input data the sampler
// consumes, plus JSONLoader, a minimal concrete Loader. Parsing feature
// CSVs and prior-count files is out of scope.
package loader

import "github.com/derpetermann/contact-zones/internal/geography"

// Data is the parsed input to a sampling run: sites with their adjacency
// graph, the observed feature matrix, which states are applicable per
// feature, and (optionally) family membership for the inheritance term.
type Data struct {
	SiteNames    []string
	FeatureNames []string
	StateNames   [][]string // per feature, the ordered category names

	// Features holds X[site][feature][state] as a one-hot/NaN-as-absent
	// observation; a missing observation is all-false for that cell.
	Features [][][]bool

	// ApplicableStates[f] masks which states of feature f are modeled at
	// all (a feature may define fewer states than the global maximum).
	ApplicableStates [][]bool

	FamilyNames []string
	Families    [][]bool // Families[m] is a boolean mask over sites

	Network *geography.Graph
}

// Loader parses input files into Data. This module ships JSONLoader;
// other implementations (CSV, database, etc.) live outside it.
type Loader interface {
	Load() (*Data, error)
}
