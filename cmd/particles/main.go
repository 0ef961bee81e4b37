// Package main provides a particle XML viewer for checking how the built-in
// particle definitions translate into presets.
//
// Usage:
//
//	go run ./cmd/particles [flags]
//
// Flags:
//
//	--dir <path>          Directory with particle XML files (default: embedded data)
//	--filter <keyword>    Only list effects whose name contains keyword
//	--effect <name>       Start with specific effect (e.g., --effect=Planting)
//	--seed <n>            Deterministic random seed
//	--verbose             Enable verbose logging
//
// Controls are the same as the preset tuner; C copies the converted
// presets as YAML.
package main

import (
	"flag"
	"io/fs"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/wellspring/pkg/app"
	"github.com/gonewx/wellspring/pkg/embedded"
)

var (
	dirFlag     = flag.String("dir", "", "Directory with particle XML files (empty = embedded data)")
	filterFlag  = flag.String("filter", "", "Initial filter by name keyword")
	effectFlag  = flag.String("effect", "", "Start with specific effect name")
	seedFlag    = flag.Uint64("seed", 0, "Deterministic random seed (0 = random)")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

func main() {
	flag.Parse()

	log.Println("=== Wellspring Particle XML Viewer ===")

	var (
		fsys  fs.FS
		files []string
		err   error
	)
	if *dirFlag != "" {
		fsys = os.DirFS(*dirFlag)
		files, err = fs.Glob(fsys, "*.xml")
	} else {
		// 二进制自身不嵌入资源：从工作目录读取 data/particles
		embedded.Init(os.DirFS("."))
		fsys, err = embedded.Data()
		if err == nil {
			files, err = embedded.ParticleFiles()
		}
	}
	if err != nil {
		log.Fatalf("Failed to list particle files: %v", err)
	}

	effects, err := app.ParticleEffects(fsys, files)
	if err != nil {
		log.Fatalf("Failed to load particle effects: %v", err)
	}
	filtered := app.FilterEffects(effects, *filterFlag)
	if len(filtered) == 0 {
		log.Printf("Warning: No effects match filter %q, showing all", *filterFlag)
		filtered = effects
	}

	viewer, err := app.NewApp(app.Config{
		Verbose: *verboseFlag,
		Effects: filtered,
		Start:   *effectFlag,
		Seed:    *seedFlag,
		Assets:  fsys,
	})
	if err != nil {
		log.Fatal("Failed to initialize viewer:", err)
	}

	ebiten.SetWindowSize(app.ScreenWidth, app.ScreenHeight)
	ebiten.SetWindowTitle("Wellspring Particle XML Viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
	log.Println("Particle viewer closed")
}
