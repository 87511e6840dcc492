package loader

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/derpetermann/contact-zones/internal/geography"
)

// jsonDocument is the on-disk shape a JSONLoader reads. Real deployments
// will likely parse the CSV feature-sheet format the model was designed
// around instead; this is the minimal concrete Loader the CLI ships with
// so a run can be exercised end to end without a bespoke parser.
type jsonDocument struct {
	Sites    []string   `json:"sites"`
	Features []string   `json:"features"`
	States   [][]string `json:"states"` // per feature

	// Observations[site][feature] is a global state index, or -1 for a
	// missing observation.
	Observations [][]int `json:"observations"`

	// ApplicableStates[f] masks which of States[f] are modeled; omitted
	// means every listed state is applicable.
	ApplicableStates [][]bool `json:"applicable_states,omitempty"`

	Families [][]bool `json:"families,omitempty"`
	FamilyNames []string `json:"family_names,omitempty"`

	Edges     [][2]int  `json:"edges"`
	Distances []float64 `json:"distances,omitempty"` // row-major n*n; Euclidean-from-coordinates if omitted
	Coordinates [][2]float64 `json:"coordinates,omitempty"`
}

// JSONLoader reads a Data document from a single JSON file.
type JSONLoader struct {
	Path string
}

// NewJSONLoader returns a Loader reading from path.
func NewJSONLoader(path string) *JSONLoader {
	return &JSONLoader{Path: path}
}

// Load implements Loader.
func (l *JSONLoader) Load() (*Data, error) {
	raw, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("jsonloader: %w", err)
	}

	var doc jsonDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("jsonloader: parse %s: %w", l.Path, err)
	}

	n := len(doc.Sites)
	nf := len(doc.Features)

	applicable := doc.ApplicableStates
	if applicable == nil {
		applicable = make([][]bool, nf)
		for f := 0; f < nf; f++ {
			mask := make([]bool, len(doc.States[f]))
			for i := range mask {
				mask[i] = true
			}
			applicable[f] = mask
		}
	}

	features := make([][][]bool, n)
	for site := 0; site < n; site++ {
		features[site] = make([][]bool, nf)
		for f := 0; f < nf; f++ {
			nStates := len(doc.States[f])
			row := make([]bool, nStates)
			if site < len(doc.Observations) && f < len(doc.Observations[site]) {
				idx := doc.Observations[site][f]
				if idx >= 0 && idx < nStates {
					row[idx] = true
				}
			}
			features[site][f] = row
		}
	}

	distances := doc.Distances
	if distances == nil && doc.Coordinates != nil {
		distances = euclideanDistances(doc.Coordinates)
	}
	if distances == nil {
		distances = make([]float64, n*n)
	}

	graph, err := geography.NewGraph(n, doc.Edges, distances)
	if err != nil {
		return nil, fmt.Errorf("jsonloader: %w", err)
	}

	return &Data{
		SiteNames:        doc.Sites,
		FeatureNames:     doc.Features,
		StateNames:       doc.States,
		Features:         features,
		ApplicableStates: applicable,
		FamilyNames:      doc.FamilyNames,
		Families:         doc.Families,
		Network:          graph,
	}, nil
}

func euclideanDistances(coords [][2]float64) []float64 {
	n := len(coords)
	out := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dx := coords[i][0] - coords[j][0]
			dy := coords[i][1] - coords[j][1]
			out[i*n+j] = math.Sqrt(dx*dx + dy*dy)
		}
	}
	return out
}
