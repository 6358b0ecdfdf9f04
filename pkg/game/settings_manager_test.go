package game

import (
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// openTestGdata 在临时 HOME 下打开 gdata 存储
func openTestGdata(t *testing.T, appName string) *gdata.Manager {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return m
}

// TestDefaultSettings 测试默认设置
func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.MusicVolume != 0.7 || s.SoundVolume != 0.8 {
		t.Errorf("Unexpected default volumes: music=%v sound=%v", s.MusicVolume, s.SoundVolume)
	}
	if !s.MusicEnabled || !s.SoundEnabled {
		t.Error("Expected music and sound enabled by default")
	}
	if s.Fullscreen {
		t.Error("Expected windowed mode by default")
	}
	if !s.CameraParallax {
		t.Error("Expected camera parallax enabled by default")
	}
	if s.Timescale != 1 {
		t.Errorf("Expected timescale 1, got %v", s.Timescale)
	}
}

// TestSettingsLoadSave 测试设置持久化往返
func TestSettingsLoadSave(t *testing.T) {
	gm := openTestGdata(t, "test_whack_settings")

	sm1, err := NewSettingsManager(gm)
	if err != nil {
		t.Fatalf("NewSettingsManager() error: %v", err)
	}
	sm1.SetMusicVolume(0.5)
	sm1.SetSoundEnabled(false)
	sm1.SetCameraParallax(false)
	sm1.SetTimescale(2)
	if err := sm1.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	sm2, _ := NewSettingsManager(gm)
	s := sm2.GetSettings()
	if s.MusicVolume != 0.5 || s.SoundEnabled || s.CameraParallax || s.Timescale != 2 {
		t.Errorf("Settings did not round-trip: %+v", s)
	}
}

// TestSettingsLoadKeepsDefaultsForMissingFields 旧版本设置文件缺少新字段
func TestSettingsLoadKeepsDefaultsForMissingFields(t *testing.T) {
	gm := openTestGdata(t, "test_whack_settings_legacy")
	if err := gm.SaveObjectProp(settingsObject, settingsProperty, []byte("musicVolume: 0.2\n")); err != nil {
		t.Fatalf("Failed to seed settings: %v", err)
	}

	sm, _ := NewSettingsManager(gm)
	s := sm.GetSettings()
	if s.MusicVolume != 0.2 {
		t.Errorf("Expected saved music volume 0.2, got %v", s.MusicVolume)
	}
	if !s.CameraParallax || s.Timescale != 1 || s.SoundVolume != 0.8 {
		t.Errorf("Expected defaults for missing fields, got %+v", s)
	}
}

// TestSettingsLoadCorrectsRange 手工编辑的越界数值被修正
func TestSettingsLoadCorrectsRange(t *testing.T) {
	gm := openTestGdata(t, "test_whack_settings_range")
	seed := []byte("musicVolume: 3\nsoundVolume: -1\ntimescale: 0\n")
	if err := gm.SaveObjectProp(settingsObject, settingsProperty, seed); err != nil {
		t.Fatalf("Failed to seed settings: %v", err)
	}

	sm, _ := NewSettingsManager(gm)
	s := sm.GetSettings()
	if s.MusicVolume != 1 || s.SoundVolume != 0 {
		t.Errorf("Expected volumes clamped to [0, 1], got music=%v sound=%v", s.MusicVolume, s.SoundVolume)
	}
	if s.Timescale != 1 {
		t.Errorf("Expected zero timescale replaced by 1, got %v", s.Timescale)
	}
}

// TestSettingsLoadCorrupted 损坏的设置文件回退到默认值
func TestSettingsLoadCorrupted(t *testing.T) {
	gm := openTestGdata(t, "test_whack_settings_corrupt")
	gm.SaveObjectProp(settingsObject, settingsProperty, []byte("musicVolume: [oops"))

	sm, err := NewSettingsManager(gm)
	if err != nil {
		t.Fatalf("NewSettingsManager() should not fail on corrupt data: %v", err)
	}
	if sm.GetSettings().MusicVolume != 0.7 {
		t.Errorf("Expected default volume after corrupt load, got %v", sm.GetSettings().MusicVolume)
	}
	if err := sm.Load(); err == nil {
		t.Error("Expected Load() to report the corrupt file")
	}
}

// TestSettingsDegradedMode gdata 不可用时只保存在内存中
func TestSettingsDegradedMode(t *testing.T) {
	sm, err := NewSettingsManager(nil)
	if err != nil || sm == nil {
		t.Fatalf("NewSettingsManager(nil) failed: %v", err)
	}

	sm.SetMusicVolume(0.3)
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode should return nil, got: %v", err)
	}
	if err := sm.Load(); err != nil {
		t.Errorf("Load() in degraded mode should return nil, got: %v", err)
	}
	if sm.GetSettings().MusicVolume != 0.7 {
		t.Errorf("Expected defaults after degraded Load(), got %v", sm.GetSettings().MusicVolume)
	}
}

// TestSettingsClamping 测试音量与时间缩放的范围限制
func TestSettingsClamping(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	volumes := []struct {
		input, want float64
	}{
		{0.5, 0.5},
		{-0.5, 0.0},
		{1.5, 1.0},
	}
	for _, tt := range volumes {
		sm.SetMusicVolume(tt.input)
		sm.SetSoundVolume(tt.input)
		s := sm.GetSettings()
		if s.MusicVolume != tt.want || s.SoundVolume != tt.want {
			t.Errorf("Volume %v: got music=%v sound=%v, want %v", tt.input, s.MusicVolume, s.SoundVolume, tt.want)
		}
	}

	scales := []struct {
		input, want float64
	}{
		{1.5, 1.5},
		{0, MinTimescale},
		{100, MaxTimescale},
	}
	for _, tt := range scales {
		sm.SetTimescale(tt.input)
		if got := sm.GetSettings().Timescale; got != tt.want {
			t.Errorf("SetTimescale(%v): got %v, want %v", tt.input, got, tt.want)
		}
	}
}
