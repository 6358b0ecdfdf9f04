package game

import (
	"bytes"
	"errors"
	"log"

	"github.com/gonewx/whack/pkg/config"
	"github.com/gonewx/whack/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// AudioManager 音频管理器
// 职责：
//   - 接收模拟核心发出的 systems.SoundRequest 并播放
//   - 音效按请求的音调重采样，每次请求使用独立的播放器，可以重叠播放
//   - 背景音乐同一时间只有一首，循环播放
//   - 应用 SettingsManager 中的音量与开关
type AudioManager struct {
	resourceManager *ResourceManager
	settingsManager *SettingsManager // 可为 nil（使用默认设置）
	audioContext    *audio.Context

	active []*audio.Player // 正在播放的音效

	currentMusic       *audio.Player
	currentMusicPath   string
	currentMusicVolume float64 // 请求方给出的音乐音量，实际音量还要乘上设置
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - rm: ResourceManager 实例（用于解码音频文件）
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
//   - audioContext: 全局音频上下文
func NewAudioManager(rm *ResourceManager, sm *SettingsManager, audioContext *audio.Context) *AudioManager {
	return &AudioManager{
		resourceManager: rm,
		settingsManager: sm,
		audioContext:    audioContext,
	}
}

// PlaySound 实现 systems.SoundSink
//
// 音效尚未解码时本次请求被丢弃（解码已在后台启动，之后的请求可以播放）。
func (am *AudioManager) PlaySound(req systems.SoundRequest) {
	if req.Kind == systems.SoundMusic {
		if req.Path == "" {
			am.StopMusic()
			return
		}
		am.PlayMusic(req.Path, req.Volume)
		return
	}

	if !am.settings().SoundEnabled || am.audioContext == nil {
		return
	}

	pcm, sampleRate, err := am.resourceManager.SoundPCM(req.Path)
	if err != nil {
		if !errors.Is(err, config.ErrResourceNotReady) {
			log.Printf("[AudioManager] Dropping %s sound: %v", req.Kind, err)
		}
		return
	}

	player, err := am.newEffectPlayer(pcm, sampleRate, req.Pitch)
	if err != nil {
		log.Printf("[AudioManager] Failed to create player for %s: %v", req.Path, err)
		return
	}
	player.SetVolume(req.Volume * am.settings().SoundVolume)
	player.Play()
	am.active = append(am.active, player)
}

// newEffectPlayer 创建一个音效播放器
// 以 sampleRate·pitch 作为源采样率重采样到上下文采样率，从而同时改变速度和音调
func (am *AudioManager) newEffectPlayer(pcm []byte, sampleRate int, pitch float64) (*audio.Player, error) {
	if pitch <= 0 {
		pitch = 1
	}
	from := int(float64(sampleRate) * pitch)
	to := am.audioContext.SampleRate()
	if from == to {
		return am.audioContext.NewPlayerFromBytes(pcm), nil
	}
	stream := audio.Resample(bytes.NewReader(pcm), int64(len(pcm)), from, to)
	return am.audioContext.NewPlayer(stream)
}

// Update 回收播放结束的音效播放器，每帧调用一次
func (am *AudioManager) Update() {
	kept := am.active[:0]
	for _, p := range am.active {
		if p.IsPlaying() {
			kept = append(kept, p)
			continue
		}
		if err := p.Close(); err != nil {
			log.Printf("[AudioManager] Warning: Failed to close player: %v", err)
		}
	}
	for i := len(kept); i < len(am.active); i++ {
		am.active[i] = nil
	}
	am.active = kept
}

// ActiveSounds 返回仍在跟踪的音效播放器数量
func (am *AudioManager) ActiveSounds() int {
	return len(am.active)
}

// PlayMusic 播放背景音乐
// 背景音乐使用 MusicVolume 设置控制音量，循环播放
// 已在播放同一首音乐时只更新音量
//
// 参数：
//   - path: 音乐文件路径（相对资源根目录）
//   - volume: 请求音量 0.0 ~ 1.0
//
// 返回：
//   - bool: 是否成功播放
func (am *AudioManager) PlayMusic(path string, volume float64) bool {
	if am.currentMusicPath == path && am.currentMusic != nil {
		am.currentMusicVolume = volume
		am.ApplySettings()
		return true
	}

	am.StopMusic()
	am.currentMusicPath = path
	am.currentMusicVolume = volume

	if !am.settings().MusicEnabled || am.audioContext == nil {
		return false
	}
	return am.startMusic()
}

// startMusic 为 currentMusicPath 创建播放器并开始播放
func (am *AudioManager) startMusic() bool {
	stream, err := am.resourceManager.MusicStream(am.currentMusicPath)
	if err != nil {
		log.Printf("[AudioManager] Failed to load music %s: %v", am.currentMusicPath, err)
		return false
	}
	player, err := am.audioContext.NewPlayer(stream)
	if err != nil {
		log.Printf("[AudioManager] Failed to create music player for %s: %v", am.currentMusicPath, err)
		return false
	}

	player.SetVolume(am.currentMusicVolume * am.settings().MusicVolume)
	player.Play()
	am.currentMusic = player
	log.Printf("[AudioManager] Playing music: %s", am.currentMusicPath)
	return true
}

// StopMusic 停止并释放当前背景音乐
func (am *AudioManager) StopMusic() {
	if am.currentMusic != nil {
		am.currentMusic.Pause()
		if err := am.currentMusic.Close(); err != nil {
			log.Printf("[AudioManager] Warning: Failed to close music player: %v", err)
		}
		am.currentMusic = nil
	}
	am.currentMusicPath = ""
}

// CurrentMusic 返回当前背景音乐路径（没有音乐时为空）
func (am *AudioManager) CurrentMusic() string {
	return am.currentMusicPath
}

// PauseMusic 暂停背景音乐（窗口失去焦点时）
func (am *AudioManager) PauseMusic() {
	if am.currentMusic != nil {
		am.currentMusic.Pause()
	}
}

// ResumeMusic 恢复背景音乐
func (am *AudioManager) ResumeMusic() {
	if am.currentMusic != nil && am.settings().MusicEnabled {
		am.currentMusic.Play()
	}
}

// ApplySettings 把当前设置应用到正在播放的音乐
// 音乐开关被关闭时暂停，重新打开时从当前位置继续（或首次开始播放）
func (am *AudioManager) ApplySettings() {
	s := am.settings()
	if am.currentMusicPath == "" {
		return
	}
	if !s.MusicEnabled {
		am.PauseMusic()
		return
	}
	if am.currentMusic == nil {
		if am.audioContext != nil {
			am.startMusic()
		}
		return
	}
	am.currentMusic.SetVolume(am.currentMusicVolume * s.MusicVolume)
	if !am.currentMusic.IsPlaying() {
		am.currentMusic.Play()
	}
}

// settings 返回当前设置（没有设置管理器时使用默认值）
func (am *AudioManager) settings() *GameSettings {
	if am.settingsManager == nil {
		return DefaultSettings()
	}
	return am.settingsManager.GetSettings()
}
