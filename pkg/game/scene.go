package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a game scene (level select, gameplay).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Enterable 是一个可选接口，场景成为当前场景时调用 OnEnter
// 用于开始播放场景音乐、重置输入状态等
type Enterable interface {
	OnEnter()
}

// Leavable 是一个可选接口，场景被替换或游戏关闭时调用 OnLeave
//
// 实现此接口的场景会在以下时机被调用 OnLeave()：
//   - 切换到其他场景
//   - 游戏窗口关闭（SceneManager.Close）
type Leavable interface {
	OnLeave()
}
