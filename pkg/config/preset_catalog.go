package config

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"sync"
)

// PresetCatalog 特效预设目录
// 负责加载和管理一个目录下的全部预设，按名称索引
type PresetCatalog struct {
	presets map[string]*EffectConfig
	names   []string
	mu      sync.RWMutex
}

// LoadPresetCatalog 加载 dir 下的所有 *.yaml 预设
//
// 参数：
//   - fsys: 文件系统（嵌入资源或 os.DirFS）
//   - dir: 预设目录（如 "data/presets"）
//
// 返回：
//   - *PresetCatalog: 预设目录，名称按字母排序
//   - error: 读取、解析失败或名称重复时返回错误
func LoadPresetCatalog(fsys fs.FS, dir string) (*PresetCatalog, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("扫描目录 %s 失败: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("目录 %s 中没有预设文件", dir)
	}

	c := NewPresetCatalog()
	for _, file := range files {
		cfg, err := LoadEffectConfigFS(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("加载文件 %s 失败: %w", file, err)
		}
		if _, exists := c.presets[cfg.Name]; exists {
			return nil, fmt.Errorf("重复的预设名称: %s (%s)", cfg.Name, file)
		}
		c.presets[cfg.Name] = cfg
		c.names = append(c.names, cfg.Name)
	}
	slices.Sort(c.names)
	return c, nil
}

// NewPresetCatalog 创建空目录
func NewPresetCatalog() *PresetCatalog {
	return &PresetCatalog{presets: make(map[string]*EffectConfig)}
}

// Names 返回所有预设名称（已排序）
func (c *PresetCatalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.names)
}

// Len 返回预设数量
func (c *PresetCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names)
}

// Get 获取预设
//
// 参数：
//   - name: 预设名称（如 "fire"）
//
// 返回：
//   - *EffectConfig: 预设
//   - error: 预设不存在时返回错误
func (c *PresetCatalog) Get(name string) (*EffectConfig, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cfg, exists := c.presets[name]
	if !exists {
		return nil, fmt.Errorf("预设 '%s' 不存在", name)
	}
	return cfg, nil
}

// Put 添加或替换预设（调参结果、导入的 XML 等）
func (c *PresetCatalog) Put(cfg *EffectConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.presets[cfg.Name]; !exists {
		c.names = append(c.names, cfg.Name)
		slices.Sort(c.names)
	}
	c.presets[cfg.Name] = cfg
	return nil
}
