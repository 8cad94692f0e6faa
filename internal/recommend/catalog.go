package recommend

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

//go:embed catalog/courses.json
var defaultCatalogJSON []byte

// LoadCatalog reads the course catalog from the given JSON file, or the
// embedded default catalog when path is empty.
func LoadCatalog(path string) ([]CourseCandidate, error) {
	data := defaultCatalogJSON
	if strings.TrimSpace(path) != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		data = fileData
	}

	var catalog []CourseCandidate
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return catalog, nil
}
