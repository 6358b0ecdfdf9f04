package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// LevelSceneFactory 关卡场景工厂函数类型
// 用于创建指定ID的关卡场景，避免 game 与 scenes 包循环依赖
// 关卡无法加载时返回 error
type LevelSceneFactory func(levelID string) (Scene, error)

// MenuSceneFactory 关卡选择场景工厂函数类型
type MenuSceneFactory func() Scene

// SceneManager manages the game's high-level state by controlling which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	levelFactory LevelSceneFactory
	menuFactory  MenuSceneFactory
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetLevelSceneFactory 设置关卡场景工厂函数
func (sm *SceneManager) SetLevelSceneFactory(factory LevelSceneFactory) {
	sm.levelFactory = factory
}

// SetMenuSceneFactory 设置关卡选择场景工厂函数
func (sm *SceneManager) SetMenuSceneFactory(factory MenuSceneFactory) {
	sm.menuFactory = factory
}

// SwitchTo changes the active scene to the provided scene.
// The previous scene receives OnLeave and the new one OnEnter when they implement those hooks.
func (sm *SceneManager) SwitchTo(scene Scene) {
	if scene == sm.currentScene {
		return
	}
	if l, ok := sm.currentScene.(Leavable); ok {
		l.OnLeave()
	}
	sm.currentScene = scene
	if e, ok := scene.(Enterable); ok {
		e.OnEnter()
	}
}

// GetCurrentScene 返回当前活动的场景
//
// 返回：
//   - Scene: 当前场景，如果没有活动场景则返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LoadLevel 加载指定ID的关卡场景
// 关卡无法创建时保持当前场景不变
//
// 返回：
//   - bool: 是否成功切换
func (sm *SceneManager) LoadLevel(levelID string) bool {
	log.Printf("[SceneManager] Loading level: %s", levelID)

	if sm.levelFactory == nil {
		log.Printf("[SceneManager] Error: level scene factory not set")
		return false
	}

	newScene, err := sm.levelFactory(levelID)
	if err != nil || newScene == nil {
		log.Printf("[SceneManager] Error: failed to create level scene %s: %v", levelID, err)
		return false
	}
	sm.SwitchTo(newScene)
	return true
}

// ShowMenu 切换到关卡选择场景
func (sm *SceneManager) ShowMenu() {
	if sm.menuFactory == nil {
		log.Printf("[SceneManager] Error: menu scene factory not set")
		return
	}
	sm.SwitchTo(sm.menuFactory())
}

// Close 通知当前场景游戏即将关闭
func (sm *SceneManager) Close() {
	if l, ok := sm.currentScene.(Leavable); ok {
		l.OnLeave()
	}
	sm.currentScene = nil
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
