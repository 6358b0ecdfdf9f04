package systems

import "github.com/gonewx/whack/pkg/components"

// AssetSource 查询贴图资源是否就绪及其尺寸
//
// 贴图仍在异步解码时返回包装了 config.ErrResourceNotReady 的错误，
// 调用方应在下一帧重试，而不是把它当作失败。
type AssetSource interface {
	ImageSize(path string) (width, height int, err error)
}

// SoundKind 音效请求的类别
type SoundKind int

const (
	SoundSpawn SoundKind = iota
	SoundTargetHurt
	SoundKill
	SoundFire
	SoundPlayerHurt
	SoundWin
	SoundLose
	// SoundUI 菜单与按钮音效（由场景层直接发出）
	SoundUI
	// SoundMusic 切换背景音乐；Path 为空表示停止音乐
	SoundMusic
)

// String 返回类别名称（用于日志）
func (k SoundKind) String() string {
	switch k {
	case SoundSpawn:
		return "spawn"
	case SoundTargetHurt:
		return "target-hurt"
	case SoundKill:
		return "kill"
	case SoundFire:
		return "fire"
	case SoundPlayerHurt:
		return "player-hurt"
	case SoundWin:
		return "win"
	case SoundLose:
		return "lose"
	case SoundUI:
		return "ui"
	case SoundMusic:
		return "music"
	default:
		return "unknown"
	}
}

// SoundRequest 一次即发即弃的播放请求
// Pitch 已乘上当前时间缩放系数；音乐请求忽略 Pitch
type SoundRequest struct {
	Kind   SoundKind
	Path   string
	Volume float64
	Pitch  float64
}

// SoundSink 音效播放端（由音频管理器实现）
type SoundSink interface {
	PlaySound(req SoundRequest)
}

// OutcomeReport 关卡结束时发出的通知
type OutcomeReport struct {
	Result      components.Outcome
	LevelID     string
	NextLevelID string // 胜利后应进入的关卡，没有下一关时为空
	HasNext     bool
	Score       int
}

// OutcomeListener 关卡结果监听者（通常是场景层，用于切换音乐和显示按钮）
type OutcomeListener interface {
	OnOutcome(report OutcomeReport)
}

// OutcomeListenerFunc 把普通函数适配为 OutcomeListener
type OutcomeListenerFunc func(report OutcomeReport)

// OnOutcome 实现 OutcomeListener
func (f OutcomeListenerFunc) OnOutcome(report OutcomeReport) { f(report) }
