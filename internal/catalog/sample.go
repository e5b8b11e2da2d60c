package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed sample.yaml
var sample []byte

// Sample returns the catalog shipped for first runs.
func Sample() *Catalog {
	c, err := Parse(sample)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded sample is invalid: %v", err))
	}
	return c
}

// WriteSample writes the sample catalog to path, creating parent directories.
func WriteSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("catalog: create directory: %w", err)
	}
	if err := os.WriteFile(path, sample, 0o644); err != nil {
		return fmt.Errorf("catalog: write %s: %w", path, err)
	}
	return nil
}
