package game

import (
	"fmt"
	"log"

	"github.com/gonewx/whack/pkg/utils"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// GameSettings 玩家偏好
// 只保存偏好，不保存任何对局进度（分数、关卡进度都不落盘）
type GameSettings struct {
	// 音频：M / N 键开关，9 / 0 和 - / = 键调整音量
	MusicVolume  float64 `yaml:"musicVolume"`  // 音乐音量 0.0 ~ 1.0，乘在关卡给出的曲目音量上
	SoundVolume  float64 `yaml:"soundVolume"`  // 音效音量 0.0 ~ 1.0，乘在每条音效请求的音量上
	MusicEnabled bool    `yaml:"musicEnabled"` // 音乐开关
	SoundEnabled bool    `yaml:"soundEnabled"` // 音效开关

	// 画面：F11 全屏，P 键镜头视差
	Fullscreen     bool `yaml:"fullscreen"`     // 启动时是否全屏
	CameraParallax bool `yaml:"cameraParallax"` // 镜头随准星移动与倾斜

	// 玩法：[ / ] 键或 -timescale 参数
	Timescale float64 `yaml:"timescale"` // 每次开局使用的时间缩放系数（1 为正常速度）
}

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{
		MusicVolume:  0.7,
		SoundVolume:  0.8,
		MusicEnabled: true,
		SoundEnabled: true,

		CameraParallax: true,
		Timescale:      1,
	}
}

// 时间缩放系数范围
const (
	MinTimescale = 0.25
	MaxTimescale = 4.0
)

// gdata 中保存偏好的位置
const (
	settingsObject   = "settings"
	settingsProperty = "preferences"
)

// SettingsManager 玩家偏好的唯一持有者
//
// 场景通过快捷键修改偏好后立即调用 Save；音频管理器和关卡场景
// 每次需要时读取 GetSettings，因此修改无需额外通知。
// gdataManager 为 nil 时偏好只保存在内存中（例如存储目录不可写）。
type SettingsManager struct {
	gdataManager *gdata.Manager
	settings     *GameSettings
}

// NewSettingsManager 创建设置管理器并读取已保存的偏好
//
// 读取失败只记录日志并使用默认值，返回的 error 始终为 nil。
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}
	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return sm, nil
}

// Load 从 gdata 读取偏好
//
// 没有存储或尚未保存过时使用默认值。文件中缺少的字段保持默认值，
// 超出范围的数值被修正到合法范围；文件损坏时回退到默认值并返回错误。
func (sm *SettingsManager) Load() error {
	sm.settings = DefaultSettings()
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	if loaded.Timescale <= 0 {
		loaded.Timescale = 1
	}
	sm.settings = loaded
	sm.SetMusicVolume(loaded.MusicVolume)
	sm.SetSoundVolume(loaded.SoundVolume)
	sm.SetTimescale(loaded.Timescale)
	log.Printf("[SettingsManager] Settings loaded: %s", sm.describe())
	return nil
}

// Save 把当前偏好写入 gdata（没有存储时什么也不做）
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
	log.Printf("[SettingsManager] Settings saved: %s", sm.describe())
	return nil
}

// GetSettings 返回当前偏好（调用方只读）
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

// SetMusicVolume 设置音乐音量，限制在 [0, 1]
// 正在播放的曲目需调用 AudioManager.ApplySettings 才会改变音量
func (sm *SettingsManager) SetMusicVolume(volume float64) {
	sm.settings.MusicVolume = utils.Clamp(volume, 0, 1)
}

// SetSoundVolume 设置音效音量，限制在 [0, 1]，从下一条音效起生效
func (sm *SettingsManager) SetSoundVolume(volume float64) {
	sm.settings.SoundVolume = utils.Clamp(volume, 0, 1)
}

// SetMusicEnabled 开关关卡与菜单音乐
func (sm *SettingsManager) SetMusicEnabled(enabled bool) {
	sm.settings.MusicEnabled = enabled
}

// SetSoundEnabled 开关枪声、命中、受伤等音效
func (sm *SettingsManager) SetSoundEnabled(enabled bool) {
	sm.settings.SoundEnabled = enabled
}

// SetFullscreen 记录全屏状态，下次启动时恢复
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetCameraParallax 开关镜头视差；关闭后镜头与碰撞盒都不再偏移
func (sm *SettingsManager) SetCameraParallax(enabled bool) {
	sm.settings.CameraParallax = enabled
}

// SetTimescale 设置开局时间缩放系数，限制在 [MinTimescale, MaxTimescale]
func (sm *SettingsManager) SetTimescale(scale float64) {
	sm.settings.Timescale = utils.Clamp(scale, MinTimescale, MaxTimescale)
}

// describe 返回偏好的简短描述（用于日志）
func (sm *SettingsManager) describe() string {
	s := sm.settings
	return fmt.Sprintf("music=%v(%.1f) sound=%v(%.1f) parallax=%v timescale=%.2f fullscreen=%v",
		s.MusicEnabled, s.MusicVolume, s.SoundEnabled, s.SoundVolume, s.CameraParallax, s.Timescale, s.Fullscreen)
}
