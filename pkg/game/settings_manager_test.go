package game

import (
	"math"
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// openTestStorage 在临时目录中创建 gdata manager
func openTestStorage(t *testing.T, appName string) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_DATA_HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	gdataManager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return gdataManager
}

// TestDefaultSettings 测试 DefaultSettings() 返回正确的默认值
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if settings == nil {
		t.Fatal("DefaultSettings() returned nil")
	}
	if settings.LastPreset != "" {
		t.Errorf("LastPreset: got %q, want empty", settings.LastPreset)
	}
	if settings.FollowMouse {
		t.Error("FollowMouse: got true, want false")
	}
	if !settings.ShowHUD {
		t.Error("ShowHUD: got false, want true")
	}
	if settings.TimeScale != 1.0 {
		t.Errorf("TimeScale: got %v, want 1.0", settings.TimeScale)
	}
}

// TestNewSettingsManagerNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm := NewSettingsManager(nil)
	if sm == nil {
		t.Fatal("NewSettingsManager(nil) returned nil")
	}
	if sm.GetSettings().TimeScale != 1.0 {
		t.Errorf("Degraded mode TimeScale: got %v, want 1.0", sm.GetSettings().TimeScale)
	}

	// 降级模式下 Save() 应该返回 nil（不报错）
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode should return nil, got: %v", err)
	}

	// 重新 Load() 恢复默认值
	sm.SetLastPreset("fire")
	if err := sm.Load(); err != nil {
		t.Errorf("Load() in degraded mode should return nil, got: %v", err)
	}
	if sm.GetSettings().LastPreset != "" {
		t.Errorf("After Load() in degraded mode, LastPreset: got %q", sm.GetSettings().LastPreset)
	}
}

// TestSettingsLoadSave 测试 Load() 和 Save() 功能
func TestSettingsLoadSave(t *testing.T) {
	gdataManager := openTestStorage(t, "test_viewer_settings")

	sm1 := NewSettingsManager(gdataManager)
	sm1.SetLastPreset("sparkle")
	sm1.SetFollowMouse(true)
	sm1.SetShowHUD(false)
	sm1.SetTimeScale(0.5)

	if err := sm1.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// 创建新的设置管理器，验证加载
	settings := NewSettingsManager(gdataManager).GetSettings()

	if settings.LastPreset != "sparkle" {
		t.Errorf("Loaded LastPreset: got %q, want sparkle", settings.LastPreset)
	}
	if !settings.FollowMouse {
		t.Error("Loaded FollowMouse: got false, want true")
	}
	if settings.ShowHUD {
		t.Error("Loaded ShowHUD: got true, want false")
	}
	if settings.TimeScale != 0.5 {
		t.Errorf("Loaded TimeScale: got %v, want 0.5", settings.TimeScale)
	}
}

// TestLoadCorruptSettings 测试损坏的设置文件回退到默认值
func TestLoadCorruptSettings(t *testing.T) {
	gdataManager := openTestStorage(t, "test_viewer_settings_corrupt")
	if err := gdataManager.SaveObjectProp(settingsObject, settingsProperty, []byte("showHUD: [")); err != nil {
		t.Fatal(err)
	}

	sm := NewSettingsManager(gdataManager)
	if !sm.GetSettings().ShowHUD {
		t.Error("corrupt settings should fall back to defaults")
	}
	if err := sm.Load(); err == nil {
		t.Error("Load() should report the unmarshal error")
	}
}

// TestSetTimeScaleClamp 测试 SetTimeScale 范围校验
func TestSetTimeScaleClamp(t *testing.T) {
	sm := NewSettingsManager(nil)

	tests := []struct {
		input    float64
		expected float64
	}{
		{1.5, 1.5},        // 正常值
		{0.1, 0.1},        // 下限
		{4.0, 4.0},        // 上限
		{0.0, 0.1},        // 低于下限
		{-3, 0.1},         // 负值
		{10, 4.0},         // 高于上限
		{math.NaN(), 0.1}, // 非数值
	}

	for _, tt := range tests {
		sm.SetTimeScale(tt.input)
		if sm.GetSettings().TimeScale != tt.expected {
			t.Errorf("SetTimeScale(%v): got %v, want %v",
				tt.input, sm.GetSettings().TimeScale, tt.expected)
		}
	}
}

// TestGetSettings 测试 GetSettings() 返回同一实例
func TestGetSettings(t *testing.T) {
	sm := NewSettingsManager(nil)

	settings1 := sm.GetSettings()
	settings2 := sm.GetSettings()
	if settings1 != settings2 {
		t.Error("GetSettings() should return the same instance")
	}
}
