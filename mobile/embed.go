//go:build mobile

// embed.go - 移动端资源嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译。
// 构建前需要把 data/presets 和 data/particles 复制到此目录：
//
//	mkdir -p mobile/data && cp -r data/presets data/particles mobile/data/
//	go build -tags mobile ./mobile
package mobile

import "embed"

//go:embed data/presets data/particles
var dataFS embed.FS
