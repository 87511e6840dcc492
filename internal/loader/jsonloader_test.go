package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/derpetermann/contact-zones/internal/loader"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
	"sites": ["a", "b", "c"],
	"features": ["f0"],
	"states": [["s0", "s1"]],
	"observations": [[0], [1], [-1]],
	"edges": [[0, 1], [1, 2]],
	"coordinates": [[0, 0], [3, 4], [3, 4]]
}`

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestJSONLoader_Load(t *testing.T) {
	path := writeDoc(t, sampleDoc)
	data, err := loader.NewJSONLoader(path).Load()
	require.NoError(t, err)

	require.Equal(t, []string{"a", "b", "c"}, data.SiteNames)
	require.Equal(t, []string{"f0"}, data.FeatureNames)

	// site 0 observes state 0, site 1 observes state 1, site 2 is missing.
	require.Equal(t, []bool{true, false}, data.Features[0][0])
	require.Equal(t, []bool{false, true}, data.Features[1][0])
	require.Equal(t, []bool{false, false}, data.Features[2][0])

	// ApplicableStates defaults to all-true when omitted.
	require.Equal(t, []bool{true, true}, data.ApplicableStates[0])

	require.NotNil(t, data.Network)
	// Euclidean distance between site 0 (0,0) and site 1 (3,4) is 5.
	require.Equal(t, 5.0, data.Network.Distance(0, 1))
}

func TestJSONLoader_MissingFile(t *testing.T) {
	_, err := loader.NewJSONLoader(filepath.Join(t.TempDir(), "absent.json")).Load()
	require.Error(t, err)
}
