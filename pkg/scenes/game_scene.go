package scenes

import (
	"context"
	"errors"
	"log"

	"github.com/gonewx/whack/pkg/components"
	"github.com/gonewx/whack/pkg/config"
	"github.com/gonewx/whack/pkg/game"
	"github.com/gonewx/whack/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

// 结算按钮布局
const (
	resultButtonWidth  = 260.0
	resultButtonHeight = 40.0
	resultButtonGap    = 12.0
	resultButtonTop    = config.CanvasHeight/2 + 40
	resultButtonText   = 20.0
)

// GameScene 关卡场景
//
// 每帧把窗口焦点、指针位置和点击交给 systems.LevelSystem，
// 再保存返回的 FrameSnapshot 供 Draw 使用。关卡结束后显示两个结算按钮。
// 重玩和下一关在场景内直接重新加载，不重建场景。
type GameScene struct {
	ctx     *Context
	levelID string
	level   *systems.LevelSystem
	text    textDrawer

	snapshot     *systems.FrameSnapshot
	report       *systems.OutcomeReport
	buttons      []*button
	showHitboxes bool

	cancelPreload context.CancelFunc
}

// NewGameScene 创建关卡场景并在共用的关卡系统上加载关卡
//
// 参数：
//   - ctx: 场景共享依赖
//   - levelID: 关卡ID
//
// 返回：
//   - *GameScene: 关卡场景
//   - error: 关卡不存在时返回包装了 config.ErrInvalidLevelReference 的错误
func NewGameScene(ctx *Context, levelID string) (*GameScene, error) {
	gs := &GameScene{
		ctx:          ctx,
		levelID:      levelID,
		text:         textDrawer{rm: ctx.Resources},
		showHitboxes: ctx.DebugHitboxes,
	}

	gs.level = ctx.LevelSystem()
	if ctx.Settings != nil {
		s := ctx.Settings.GetSettings()
		gs.level.SetCameraParallax(s.CameraParallax)
		gs.level.SetDefaultTimescale(s.Timescale)
	}
	if err := gs.level.Load(levelID); err != nil {
		return nil, err
	}
	gs.level.SetOutcomeListener(systems.OutcomeListenerFunc(gs.onOutcome))
	ctx.activeGame = gs
	gs.startPreload()
	return gs, nil
}

// reload 在当前场景内加载关卡（重玩或下一关）
// 目标关卡不在目录中时改为重玩当前关卡
func (gs *GameScene) reload(levelID string) {
	if !gs.ctx.Catalog.HasLevel(levelID) {
		log.Printf("[GameScene] Level %s not in catalog, restarting %s", levelID, gs.levelID)
		levelID = gs.levelID
	}
	if err := gs.level.Load(levelID); err != nil {
		log.Printf("[GameScene] Reload failed: %v", err)
		return
	}
	if gs.cancelPreload != nil {
		gs.cancelPreload()
		gs.cancelPreload = nil
	}
	gs.levelID = levelID
	gs.snapshot = nil
	gs.report = nil
	gs.buttons = nil
	gs.startPreload()
}

// startPreload 在后台预解码本关用到的贴图和音效
func (gs *GameScene) startPreload() {
	if gs.ctx.Resources == nil {
		return
	}
	level, err := gs.ctx.Catalog.Level(gs.levelID)
	if err != nil {
		return
	}
	group := game.LevelResourceGroup(level, gs.ctx.Catalog)

	pctx, cancel := context.WithCancel(context.Background())
	gs.cancelPreload = cancel
	go func() {
		err := gs.ctx.Resources.PreloadGroup(pctx, group)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[GameScene] Preload for %s incomplete: %v", gs.levelID, err)
		}
	}()
}

// Level 返回关卡系统
func (gs *GameScene) Level() *systems.LevelSystem {
	return gs.level
}

// Snapshot 返回最近一帧的绘制数据
func (gs *GameScene) Snapshot() *systems.FrameSnapshot {
	return gs.snapshot
}

// OnLeave 离开场景时卸载关卡并停止预加载
// 关卡系统已被新的关卡场景接管时不卸载
func (gs *GameScene) OnLeave() {
	if gs.cancelPreload != nil {
		gs.cancelPreload()
		gs.cancelPreload = nil
	}
	if gs.ctx.activeGame != gs {
		return
	}
	gs.ctx.activeGame = nil
	gs.level.Unload()
}

// onOutcome 关卡结束：生成结算按钮
func (gs *GameScene) onOutcome(report systems.OutcomeReport) {
	gs.report = &report
	primary, secondary := resultButtonLabels(report)

	x := (config.CanvasWidth - resultButtonWidth) / 2
	gs.buttons = []*button{
		{label: primary, x: x, y: resultButtonTop, w: resultButtonWidth, h: resultButtonHeight},
		{label: secondary, x: x, y: resultButtonTop + resultButtonHeight + resultButtonGap, w: resultButtonWidth, h: resultButtonHeight},
	}
}

// resultButtonLabels 返回结算界面主按钮和次按钮的文字
func resultButtonLabels(report systems.OutcomeReport) (primary, secondary string) {
	if report.Result == components.OutcomeWon {
		if report.HasNext {
			return "NEXT LEVEL!!!", "i wanna switch :("
		}
		return "IMMA DO IT AGAIN!!!", "i wanna switch :("
	}
	return "RUN THAT BACK!!!", "i quit :("
}

// Update 处理输入并推进一帧
// deltaTime 未使用：关卡时间由 LevelSystem 自己的时间源计算
func (gs *GameScene) Update(deltaTime float64) {
	in := gs.ctx.Input
	gs.level.SetFocused(in.Focused())

	if gs.handleKeys() {
		return
	}

	px, py := in.Pointer()
	clicked := in.JustClicked()
	gs.level.SetPointerTarget(float64(px), float64(py))

	if gs.level.State().IsResolved() {
		if gs.handleButtons(float64(px), float64(py), clicked) {
			return
		}
	} else if clicked {
		gs.level.Fire()
	}

	if snap := gs.level.Frame(); snap != nil {
		gs.snapshot = snap
	}
	if gs.ctx.Audio != nil {
		gs.ctx.Audio.Update()
	}

	hover := anyHovered(gs.buttons)
	if gs.snapshot != nil && !gs.level.State().IsResolved() {
		hover = hover || gs.snapshot.Hover
	}
	in.SetHover(hover)
}

// handleKeys 处理快捷键，返回 true 表示场景已切换
// R 在场景内重新加载，之后本帧照常推进
func (gs *GameScene) handleKeys() bool {
	in := gs.ctx.Input
	switch {
	case in.KeyJustPressed(ebiten.KeyEscape):
		gs.ctx.Scenes.ShowMenu()
		return true
	case in.KeyJustPressed(ebiten.KeyR):
		gs.reload(gs.levelID)
	case in.KeyJustPressed(ebiten.KeyH):
		gs.showHitboxes = !gs.showHitboxes
	}

	change := handleSettingsKeys(gs.ctx)
	if change.parallax {
		gs.level.SetCameraParallax(gs.ctx.Settings.GetSettings().CameraParallax)
	}
	if change.timescale {
		ts := gs.ctx.Settings.GetSettings().Timescale
		gs.level.SetDefaultTimescale(ts)
		gs.level.SetTimescale(ts)
	}
	return false
}

// handleButtons 处理结算按钮，返回 true 表示场景已切换
// 主按钮在场景内加载关卡，返回 false 让本帧推进新关卡
func (gs *GameScene) handleButtons(px, py float64, clicked bool) bool {
	pressed, entered := updateButtons(gs.buttons, px, py, clicked)
	if entered {
		playUISound(gs.ctx, config.SoundButtonHover, config.ButtonSoundVolume, 1)
	}
	switch pressed {
	case 0:
		playUISound(gs.ctx, config.SoundButtonClick, config.ButtonSoundVolume, 0.8)
		next := gs.level.PrimaryActionLevel()
		log.Printf("[GameScene] Primary action: loading %s", next)
		gs.reload(next)
		return false
	case 1:
		playUISound(gs.ctx, config.SoundButtonClick, config.ButtonSoundVolume, 0.8)
		gs.level.Unload()
		gs.ctx.Scenes.ShowMenu()
		return true
	}
	return false
}

// playUISound 播放菜单与按钮音效（没有音频管理器时忽略）
func playUISound(ctx *Context, path string, volume, pitch float64) {
	if ctx.Audio == nil {
		return
	}
	ctx.Audio.PlaySound(systems.SoundRequest{Kind: systems.SoundUI, Path: path, Volume: volume, Pitch: pitch})
}
