// Package scenes 实现游戏的两个场景：关卡选择和关卡本身
//
// 场景只负责输入采集、绘制和场景切换；关卡规则全部在 systems 包中，
// 场景每帧把输入交给 systems.LevelSystem，再把返回的 FrameSnapshot 画出来。
package scenes

import (
	"github.com/gonewx/whack/pkg/config"
	"github.com/gonewx/whack/pkg/game"
	"github.com/gonewx/whack/pkg/systems"
)

// Scene is a type alias for game.Scene.
type Scene = game.Scene

// Context 场景共享的依赖
type Context struct {
	Resources *game.ResourceManager
	Audio     *game.AudioManager
	Settings  *game.SettingsManager
	Scenes    *game.SceneManager
	Catalog   *config.Catalog
	Input     InputSource

	// DebugHitboxes 启动时是否显示碰撞盒（游戏中按 H 切换）
	DebugHitboxes bool

	level      *systems.LevelSystem
	activeGame *GameScene
}

// LevelSystem 返回整个进程共用的关卡系统，首次调用时创建
//
// 后坐力弹簧和随机源属于关卡系统，因此重玩、下一关和从关卡选择重新进入
// 都沿用同一组弹簧。
func (c *Context) LevelSystem() *systems.LevelSystem {
	if c.level != nil {
		return c.level
	}
	var assets systems.AssetSource
	if c.Resources != nil {
		assets = c.Resources
	}
	var sounds systems.SoundSink
	if c.Audio != nil {
		sounds = c.Audio
	}
	c.level = systems.NewLevelSystem(c.Catalog, assets, sounds, nil, nil)
	return c.level
}
