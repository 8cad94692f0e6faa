package recommend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCatalogEmbeddedDefault(t *testing.T) {
	catalog, err := LoadCatalog("")
	require.NoError(t, err)
	require.NotEmpty(t, catalog)

	for _, c := range catalog {
		require.NotEmpty(t, c.ID)
		require.NotEmpty(t, c.Title)
		require.Positive(t, c.Rating)
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.json")
	data := `[{"id":"x","title":"X","category":"engineer","skills":["go"],"rating":4.0,"reviewCount":10}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	require.Equal(t, "x", catalog[0].ID)
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadCatalogRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadCatalog(path)
	require.Error(t, err)
}
