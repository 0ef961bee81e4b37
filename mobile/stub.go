//go:build !mobile

// Package mobile 在普通构建中只有这个占位文件；
// 绑定代码（mobile.go、embed.go）需要 -tags mobile。
package mobile

// Dummy 让 ./mobile 在桌面构建中也是一个可编译的包
func Dummy() {}
