package holidays

import (
	"context"
	"fmt"
	"os"

	"github.com/daniswara/board/internal/models"
	"github.com/daniswara/board/internal/timeline"
	"gopkg.in/yaml.v3"
)

// File reads holidays from a YAML list:
//
//	- date: 2025-08-17
//	  name: Hari Kemerdekaan RI
type File struct {
	Path string
}

func (f *File) Name() string { return "file" }

// Fetch re-reads the file on every call so edits are picked up by the
// next refresh.
func (f *File) Fetch(_ context.Context, from, to timeline.Day) ([]models.Holiday, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading holiday file: %w", err)
	}
	var list []models.Holiday
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing holiday file: %w", err)
	}
	return Between(list, from, to), nil
}
