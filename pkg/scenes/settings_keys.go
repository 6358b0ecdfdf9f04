package scenes

import (
	"fmt"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// timescaleStep 每次按 [ 或 ] 调整的时间缩放量
	timescaleStep = 0.25
	// volumeStep 每次按音量键调整的音量
	volumeStep = 0.1
)

// settingsChange 本帧被快捷键修改的设置
type settingsChange struct {
	parallax  bool
	timescale bool
	audio     bool
}

func (c settingsChange) any() bool {
	return c.parallax || c.timescale || c.audio
}

// handleSettingsKeys 处理两个场景共用的设置快捷键
//
//	P 镜头视差  M 音乐  N 音效  [ 减速  ] 加速
//	9 / 0 音乐音量  - / = 音效音量
//
// 有修改时立即保存并应用到音频管理器。
func handleSettingsKeys(ctx *Context) settingsChange {
	var change settingsChange
	sm := ctx.Settings
	if sm == nil || ctx.Input == nil {
		return change
	}
	s := sm.GetSettings()
	in := ctx.Input

	if in.KeyJustPressed(ebiten.KeyP) {
		sm.SetCameraParallax(!s.CameraParallax)
		change.parallax = true
	}
	if in.KeyJustPressed(ebiten.KeyM) {
		sm.SetMusicEnabled(!s.MusicEnabled)
		change.audio = true
	}
	if in.KeyJustPressed(ebiten.KeyN) {
		sm.SetSoundEnabled(!s.SoundEnabled)
		change.audio = true
	}
	if in.KeyJustPressed(ebiten.KeyDigit9) {
		sm.SetMusicVolume(s.MusicVolume - volumeStep)
		change.audio = true
	}
	if in.KeyJustPressed(ebiten.KeyDigit0) {
		sm.SetMusicVolume(s.MusicVolume + volumeStep)
		change.audio = true
	}
	if in.KeyJustPressed(ebiten.KeyMinus) {
		sm.SetSoundVolume(s.SoundVolume - volumeStep)
		change.audio = true
	}
	if in.KeyJustPressed(ebiten.KeyEqual) {
		sm.SetSoundVolume(s.SoundVolume + volumeStep)
		change.audio = true
	}
	if in.KeyJustPressed(ebiten.KeyBracketLeft) {
		sm.SetTimescale(s.Timescale - timescaleStep)
		change.timescale = true
	}
	if in.KeyJustPressed(ebiten.KeyBracketRight) {
		sm.SetTimescale(s.Timescale + timescaleStep)
		change.timescale = true
	}

	if !change.any() {
		return change
	}
	if change.audio && ctx.Audio != nil {
		ctx.Audio.ApplySettings()
	}
	if err := sm.Save(); err != nil {
		log.Printf("[Settings] Warning: Failed to save settings: %v", err)
	}
	log.Printf("[Settings] %s", settingsSummary(ctx))
	return change
}

// settingsSummary 返回当前设置的一行描述（关卡选择页脚也使用它）
func settingsSummary(ctx *Context) string {
	if ctx.Settings == nil {
		return ""
	}
	s := ctx.Settings.GetSettings()
	return fmt.Sprintf("[P] parallax %s  [M] music %s %d%%  [N] sound %s %d%%  [ ] speed %.2fx",
		onOff(s.CameraParallax), onOff(s.MusicEnabled), percent(s.MusicVolume),
		onOff(s.SoundEnabled), percent(s.SoundVolume), s.Timescale)
}

func percent(volume float64) int {
	return int(math.Round(volume * 100))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
