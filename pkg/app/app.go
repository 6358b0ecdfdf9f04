// Package app 提供游戏应用的核心包装器
//
// 该包把初始化逻辑从 main 包提取出来：加载关卡目录和资源清单、
// 创建音频与设置管理器、注册场景工厂，并实现 ebiten.Game 接口。
package app

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"

	"github.com/gonewx/whack/pkg/config"
	"github.com/gonewx/whack/pkg/embedded"
	"github.com/gonewx/whack/pkg/game"
	"github.com/gonewx/whack/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// 应用常量
const (
	// AppName gdata 存储使用的应用名
	AppName = "whack"

	// WindowScale 默认窗口相对逻辑画布的放大倍数
	WindowScale = 2

	// audioSampleRate 音频上下文采样率
	audioSampleRate = 48000
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Level 启动后直接进入的关卡ID，为空则显示关卡选择
	Level string
	// Timescale 覆盖设置中的时间缩放系数（0 表示使用设置）
	Timescale float64
	// AssetRoot 包含 assets/ 目录的根目录
	AssetRoot string
	// Debug 启动时显示碰撞盒
	Debug bool
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager    *game.SceneManager
	settingsManager *game.SettingsManager
	audioManager    *game.AudioManager

	focused       bool
	cancelPreload context.CancelFunc

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入数据。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	data, err := embedded.Data()
	if err != nil {
		return nil, err
	}

	// 加载关卡与目标目录；个别文件损坏只记录日志
	catalog, err := config.LoadCatalog(data, config.LevelFilesPattern, config.TargetFilesPattern)
	if catalog == nil {
		return nil, fmt.Errorf("failed to load level catalog: %w", err)
	}
	if err != nil {
		log.Printf("[App] Warning: some data files were skipped: %v", err)
	}

	audioContext := audio.NewContext(audioSampleRate)

	root := cfg.AssetRoot
	if root == "" {
		root = "."
	}
	resourceManager := game.NewResourceManager(os.DirFS(root), audioContext)
	if err := resourceManager.LoadResourceConfig(data, game.AssetManifestPath); err != nil {
		return nil, fmt.Errorf("failed to load asset manifest: %w", err)
	}

	// 后台预解码所有关卡共用的资源（枪、火光、弹壳、界面音效）
	preloadCtx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := resourceManager.Preload(preloadCtx, "common"); err != nil {
			log.Printf("[App] Common preload incomplete: %v", err)
		}
	}()

	gdataManager, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[App] Warning: persistent storage unavailable: %v (settings will not be saved)", err)
		gdataManager = nil
	}
	settingsManager, _ := game.NewSettingsManager(gdataManager)
	if cfg.Timescale > 0 {
		settingsManager.SetTimescale(cfg.Timescale)
	}

	audioManager := game.NewAudioManager(resourceManager, settingsManager, audioContext)
	log.Printf("[App] AudioManager initialized")

	sceneManager := game.NewSceneManager()
	ctx := &scenes.Context{
		Resources:     resourceManager,
		Audio:         audioManager,
		Settings:      settingsManager,
		Scenes:        sceneManager,
		Catalog:       catalog,
		Input:         scenes.NewEbitenInput(),
		DebugHitboxes: cfg.Debug,
	}
	sceneManager.SetLevelSceneFactory(func(levelID string) (game.Scene, error) {
		return scenes.NewGameScene(ctx, levelID)
	})
	sceneManager.SetMenuSceneFactory(func() game.Scene {
		return scenes.NewLevelSelectScene(ctx)
	})

	if cfg.Level == "" || !sceneManager.LoadLevel(cfg.Level) {
		if cfg.Level != "" {
			log.Printf("[App] Level %s unavailable, showing level select", cfg.Level)
		}
		sceneManager.ShowMenu()
	}

	if settingsManager.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return &App{
		sceneManager:    sceneManager,
		settingsManager: settingsManager,
		audioManager:    audioManager,
		focused:         true,
		cancelPreload:   cancel,
	}, nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.Shutdown()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.CanvasWidth*WindowScale, config.CanvasHeight*WindowScale)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	// 失去焦点时暂停音乐（关卡时间由关卡场景自行冻结）
	if focused := ebiten.IsFocused(); focused != a.focused {
		a.focused = focused
		if focused {
			a.audioManager.ResumeMusic()
		} else {
			a.audioManager.PauseMusic()
		}
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

// toggleFullscreen 切换全屏并保存设置
func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	} else {
		ebiten.SetFullscreen(true)
	}
	a.settingsManager.SetFullscreen(!a.settingsManager.GetSettings().Fullscreen)
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] Warning: Failed to save settings: %v", err)
	}
}

// Shutdown 关闭前保存设置并离开当前场景
func (a *App) Shutdown() {
	if a.cancelPreload != nil {
		a.cancelPreload()
	}
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] Warning: Failed to save settings: %v", err)
	}
	a.sceneManager.Close()
	log.Printf("[App] Shutdown complete")
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.CanvasWidth, config.CanvasHeight
}
