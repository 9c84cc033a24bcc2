// Package seed loads initial site content from YAML.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sukryu/labsite/pkg/controllers"
)

//go:embed default.yaml
var defaultSeed []byte

// File is a seed document: items to create, grouped by collection.
type File struct {
	Collections []Collection `yaml:"collections"`
}

type Collection struct {
	Name  string                   `yaml:"name"`
	Items []map[string]interface{} `yaml:"items"`
}

// Result counts created items per collection. Collections that already had
// content are listed in Skipped.
type Result struct {
	Created map[string]int
	Skipped []string
}

func Decode(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	return &f, nil
}

func Default() (*File, error) {
	return Decode(bytes.NewReader(defaultSeed))
}

func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Apply creates the seed items through the collection controller, so they
// pass the same validation as admin input. A collection that already holds
// items is skipped unless force is set.
func Apply(ctx context.Context, collections controllers.CollectionController, f *File, force bool, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	res := &Result{Created: make(map[string]int)}

	for _, c := range f.Collections {
		if _, err := collections.Collection(c.Name); err != nil {
			return res, err
		}

		if !force {
			existing, err := collections.List(ctx, c.Name, nil)
			if err != nil {
				return res, err
			}
			if len(existing) > 0 {
				logger.Info("collection already has content, skipping", zap.String("collection", c.Name))
				res.Skipped = append(res.Skipped, c.Name)
				continue
			}
		}

		for i, values := range c.Items {
			if _, err := collections.Create(ctx, c.Name, values); err != nil {
				return res, fmt.Errorf("%s item %d: %w", c.Name, i, err)
			}
			res.Created[c.Name]++
		}
		logger.Info("seeded collection", zap.String("collection", c.Name), zap.Int("items", res.Created[c.Name]))
	}
	return res, nil
}
