package game

import (
	"fmt"
	"log"
	"maps"
	"regexp"
	"slices"
	"sync"

	"github.com/gonewx/wellspring/pkg/config"
	"github.com/quasilyte/gdata/v2"
)

// presetsObject gdata 对象名，每个预设是其中的一个属性
const presetsObject = "presets"

// presetNamePattern 预设名称会成为存储文件名，只允许安全字符
var presetNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// PresetStore 调参结果存储
// 负责把调好的特效预设持久化到 gdata，每个预设一个属性；名称列表直接取自存储
type PresetStore struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存）
	memory       map[string][]byte
	mu           sync.Mutex
}

// NewPresetStore 创建预设存储
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，预设只保存在内存中）
//
// 返回：
//   - *PresetStore: 存储实例
func NewPresetStore(gdataManager *gdata.Manager) *PresetStore {
	return &PresetStore{
		gdataManager: gdataManager,
		memory:       make(map[string][]byte),
	}
}

// Persistent 返回预设是否会写入磁盘
func (ps *PresetStore) Persistent() bool {
	return ps.gdataManager != nil
}

// Save 保存预设（同名覆盖）
//
// 参数：
//   - cfg: 已校验的预设，名称只能包含字母、数字、'-' 和 '_'
//
// 返回：
//   - error: 校验、序列化或写入失败时返回错误
func (ps *PresetStore) Save(cfg *config.EffectConfig) error {
	if !presetNamePattern.MatchString(cfg.Name) {
		return fmt.Errorf("invalid preset name %q", cfg.Name)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.gdataManager == nil {
		ps.memory[cfg.Name] = data
	} else if err := ps.gdataManager.SaveObjectProp(presetsObject, cfg.Name, data); err != nil {
		return fmt.Errorf("failed to save preset %s: %w", cfg.Name, err)
	}
	log.Printf("[PresetStore] Preset %s saved", cfg.Name)
	return nil
}

// Load 读取已保存的预设
func (ps *PresetStore) Load(name string) (*config.EffectConfig, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if !ps.has(name) {
		return nil, fmt.Errorf("preset '%s' not saved", name)
	}

	var (
		data []byte
		err  error
	)
	if ps.gdataManager == nil {
		data = ps.memory[name]
	} else if data, err = ps.gdataManager.LoadObjectProp(presetsObject, name); err != nil {
		return nil, fmt.Errorf("failed to load preset %s: %w", name, err)
	}

	cfg, err := config.ParseEffectConfig(data)
	if err != nil {
		return nil, fmt.Errorf("saved preset %s: %w", name, err)
	}
	return cfg, nil
}

// Has 检查预设是否已保存
func (ps *PresetStore) Has(name string) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.has(name)
}

func (ps *PresetStore) has(name string) bool {
	if !presetNamePattern.MatchString(name) {
		return false
	}
	if ps.gdataManager == nil {
		_, ok := ps.memory[name]
		return ok
	}
	return ps.gdataManager.ObjectPropExists(presetsObject, name)
}

// Names 返回已保存的预设名称（已排序）
//
// 存储目录中不符合命名规则的文件（临时文件等）被忽略。
func (ps *PresetStore) Names() ([]string, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.gdataManager == nil {
		return slices.Sorted(maps.Keys(ps.memory)), nil
	}
	props, err := ps.gdataManager.ListObjectProps(presetsObject)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	names := make([]string, 0, len(props))
	for _, p := range props {
		if presetNamePattern.MatchString(p) {
			names = append(names, p)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Delete 删除已保存的预设
//
// 删除不存在的预设不视为错误。
func (ps *PresetStore) Delete(name string) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.gdataManager == nil {
		delete(ps.memory, name)
		return nil
	}
	if !presetNamePattern.MatchString(name) {
		return nil
	}
	if err := ps.gdataManager.DeleteObjectProp(presetsObject, name); err != nil {
		return fmt.Errorf("failed to delete preset %s: %w", name, err)
	}
	log.Printf("[PresetStore] Preset %s deleted", name)
	return nil
}
