//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包，
// 仅在使用 -tags mobile 构建时编译：
//
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.gonewx.wellspring -o build/android/wellspring.aar -v ./mobile
//	ebitenmobile bind -target ios -tags mobile -o build/ios/Wellspring.xcframework -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"
	"github.com/quasilyte/gdata/v2"

	"github.com/gonewx/wellspring/pkg/app"
	"github.com/gonewx/wellspring/pkg/config"
	"github.com/gonewx/wellspring/pkg/embedded"
)

func init() {
	// 初始化嵌入资源
	embedded.Init(dataFS)

	catalog, err := config.LoadPresetCatalog(dataFS, embedded.PresetsDir)
	if err != nil {
		log.Fatalf("预设加载失败: %v", err)
	}

	storage, err := gdata.Open(gdata.Config{AppName: "wellspring"})
	if err != nil {
		log.Printf("[Mobile] Warning: storage unavailable: %v", err)
		storage = nil
	}

	viewer, err := app.NewApp(app.Config{
		Verbose:      true,
		Effects:      app.PresetEffects(catalog),
		Assets:       dataFS,
		Storage:      storage,
		IncludeSaved: true,
	})
	if err != nil {
		log.Fatalf("查看器初始化失败: %v", err)
	}

	// 注册到 ebitenmobile
	mobile.SetGame(viewer)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
