// Command presetschema writes the JSON schema for effect presets and can
// check a directory of preset files against it.
//
//	go run ./cmd/presetschema --out data/presets/schema.json
//	go run ./cmd/presetschema --check data/presets
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gonewx/wellspring/pkg/config"
)

func main() {
	var outPath, checkDir string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema")
	flag.StringVar(&checkDir, "check", "", "directory of *.yaml presets to validate")
	flag.Parse()

	if outPath == "" && checkDir == "" {
		fmt.Fprintln(os.Stderr, "--out or --check is required")
		os.Exit(1)
	}

	if checkDir != "" {
		catalog, err := config.LoadPresetCatalog(os.DirFS(checkDir), ".")
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid presets: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%d presets OK: %v\n", catalog.Len(), catalog.Names())
	}

	if outPath != "" {
		if err := writeSchema(outPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
			os.Exit(1)
		}
	}
}

func writeSchema(outPath string) error {
	data, err := config.Schema()
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
