// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数，让其他包可以访问嵌入的资源。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotInitialized 在 Init() 之前访问资源时返回
var ErrNotInitialized = errors.New("embedded package not initialized, call Init() first")

// Resource directories inside the data FS.
const (
	PresetsDir   = "data/presets"
	ParticlesDir = "data/particles"
)

var (
	mu     sync.RWMutex
	dataFS fs.FS
)

// Init 设置嵌入的数据文件系统
// 必须在 main() 开始时、任何资源加载之前调用；传入 nil 恢复为未初始化状态
func Init(data fs.FS) {
	mu.Lock()
	defer mu.Unlock()
	dataFS = data
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	mu.RLock()
	defer mu.RUnlock()
	return dataFS != nil
}

// Data 返回数据文件系统，路径以 "data/" 开头
func Data() (fs.FS, error) {
	mu.RLock()
	defer mu.RUnlock()
	if dataFS == nil {
		return nil, ErrNotInitialized
	}
	return dataFS, nil
}

// clean 标准化路径并检查前缀
func clean(path string) (string, error) {
	// embed.FS 使用正斜杠
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")
	if !strings.HasPrefix(path, "data/") && path != "data" {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", path)
	}
	return path, nil
}

func resolve(path string) (fs.FS, string, error) {
	fsys, err := Data()
	if err != nil {
		return nil, "", err
	}
	path, err = clean(path)
	if err != nil {
		return nil, "", err
	}
	return fsys, path, nil
}

// ReadFile 读取嵌入文件内容
func ReadFile(path string) ([]byte, error) {
	fsys, path, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(fsys, path)
}

// Exists 检查文件是否存在
func Exists(path string) bool {
	fsys, path, err := resolve(path)
	if err != nil {
		return false
	}
	_, err = fs.Stat(fsys, path)
	return err == nil
}

// Glob 匹配嵌入文件
func Glob(pattern string) ([]string, error) {
	fsys, pattern, err := resolve(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(fsys, pattern)
}

// ReadDir 读取目录内容
func ReadDir(path string) ([]fs.DirEntry, error) {
	fsys, path, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(fsys, path)
}

// ParticleFiles 列出内置的粒子 XML 文件
func ParticleFiles() ([]string, error) {
	return Glob(ParticlesDir + "/*.xml")
}
