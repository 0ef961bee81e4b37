// Wellspring 特效预设调试器
//
// Usage:
//
//	go run . [flags]
//
// Flags:
//
//	--preset <name>       Start with a specific preset
//	--seed <n>            Deterministic random seed (0 = random)
//	--tune-addr <addr>    Serve live tuning on addr (e.g. 127.0.0.1:7410)
//	--xml                 Also list the built-in particle XML effects
//	--verbose             Enable verbose logging
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"

	"github.com/gonewx/wellspring/pkg/app"
	"github.com/gonewx/wellspring/pkg/config"
	"github.com/gonewx/wellspring/pkg/embedded"
	"github.com/gonewx/wellspring/pkg/remote"
)

var (
	presetFlag   = flag.String("preset", "", "Start with specific preset name")
	seedFlag     = flag.Uint64("seed", 0, "Deterministic random seed (0 = random)")
	tuneAddrFlag = flag.String("tune-addr", "", "Serve live preset tuning on this address (empty = disabled)")
	xmlFlag      = flag.Bool("xml", false, "Also list the built-in particle XML effects")
	verboseFlag  = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源（必须在任何资源加载之前）
	embedded.Init(dataFS)

	catalog, err := config.LoadPresetCatalog(dataFS, embedded.PresetsDir)
	if err != nil {
		log.Fatalf("预设加载失败: %v", err)
	}
	effects := app.PresetEffects(catalog)

	if *xmlFlag {
		files, err := embedded.ParticleFiles()
		if err != nil {
			log.Fatalf("粒子文件列表读取失败: %v", err)
		}
		xmlEffects, err := app.ParticleEffects(dataFS, files)
		if err != nil {
			log.Fatalf("粒子文件导入失败: %v", err)
		}
		effects = append(effects, xmlEffects...)
	}

	// gdata 打开失败时降级为仅内存存储
	storage, err := gdata.Open(gdata.Config{AppName: "wellspring"})
	if err != nil {
		log.Printf("[Main] Warning: storage unavailable: %v (settings will not persist)", err)
		storage = nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var tuning *remote.Server
	if *tuneAddrFlag != "" {
		if tuning, err = remote.NewServer(); err != nil {
			log.Fatalf("调参服务创建失败: %v", err)
		}
		go func() {
			if err := tuning.ListenAndServe(ctx, *tuneAddrFlag); err != nil {
				log.Printf("[Main] Tuning server stopped: %v", err)
			}
		}()
	}

	viewer, err := app.NewApp(app.Config{
		Verbose:      *verboseFlag,
		Effects:      effects,
		Start:        *presetFlag,
		Seed:         *seedFlag,
		Assets:       dataFS,
		Storage:      storage,
		IncludeSaved: true,
		Remote:       tuning,
	})
	if err != nil {
		log.Fatalf("查看器初始化失败: %v", err)
	}

	ebiten.SetWindowSize(app.ScreenWidth, app.ScreenHeight)
	ebiten.SetWindowTitle("Wellspring Particle Tuner")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(viewer)
	if err := viewer.Close(); err != nil {
		log.Printf("[Main] Failed to save settings: %v", err)
	}
	if runErr != nil {
		log.Printf("[Main] %v", runErr)
		os.Exit(1)
	}
	log.Println("Viewer closed")
}
