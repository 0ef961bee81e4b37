package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ViewerSettings 查看器设置
// 在两次启动之间保留的界面状态
type ViewerSettings struct {
	LastPreset  string  `yaml:"lastPreset"`  // 上次选择的预设
	FollowMouse bool    `yaml:"followMouse"` // 发射器跟随鼠标
	ShowHUD     bool    `yaml:"showHUD"`     // 显示统计信息
	TimeScale   float64 `yaml:"timeScale"`   // 模拟速度倍率 0.1 ~ 4.0
}

// DefaultSettings 返回默认设置
func DefaultSettings() *ViewerSettings {
	return &ViewerSettings{
		LastPreset:  "",
		FollowMouse: false,
		ShowHUD:     true,
		TimeScale:   1.0,
	}
}

// SettingsManager 设置管理器
// 负责查看器设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *ViewerSettings
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例（加载失败时使用默认设置）
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return sm
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
//
// 返回：
//   - error: 如果反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 未出现在文件中的字段保留默认值
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.TimeScale = clampTimeScale(loaded.TimeScale)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *ViewerSettings {
	return sm.settings
}

// SetLastPreset 记录当前预设
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetLastPreset(name string) {
	sm.settings.LastPreset = name
}

// SetFollowMouse 设置发射器是否跟随鼠标
func (sm *SettingsManager) SetFollowMouse(enabled bool) {
	sm.settings.FollowMouse = enabled
}

// SetShowHUD 设置是否显示统计信息
func (sm *SettingsManager) SetShowHUD(enabled bool) {
	sm.settings.ShowHUD = enabled
}

// SetTimeScale 设置模拟速度倍率
//
// 倍率会被限制在 0.1 ~ 4.0 范围内
func (sm *SettingsManager) SetTimeScale(scale float64) {
	sm.settings.TimeScale = clampTimeScale(scale)
}

// clampTimeScale 将倍率限制在 0.1 ~ 4.0 范围内
func clampTimeScale(scale float64) float64 {
	if !(scale >= 0.1) {
		return 0.1
	}
	if scale > 4.0 {
		return 4.0
	}
	return scale
}
