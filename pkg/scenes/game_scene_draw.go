package scenes

import (
	"image/color"
	"math"

	"github.com/gonewx/whack/pkg/components"
	"github.com/gonewx/whack/pkg/config"
	"github.com/gonewx/whack/pkg/systems"
	"github.com/gonewx/whack/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// HUD 参数
const (
	hudTextSize    = 24.0
	hudBannerSize  = 48.0
	hudStroke      = 6.0
	hudMargin      = 6.0
	hudScoreBottom = 12.0
	flashAlpha     = 0.8
)

var (
	hurtColor    = color.RGBA{R: 255, A: 255}
	endTintColor = color.RGBA{G: 255, A: 255}
)

// Draw 绘制当前帧
func (gs *GameScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	snap := gs.snapshot
	if snap == nil {
		gs.text.drawStroked(screen, "loading...", config.CanvasWidth/2, config.CanvasHeight/2, 0.5, 0.5, hudTextSize, hudStroke)
		return
	}

	cam := cameraGeoM(snap.Camera)
	gs.drawWorld(screen, snap, cam)

	fillBlended(screen, hurtColor, snap.HurtAlpha, multiplyBlend)
	if snap.State.IsResolved() {
		fillBlended(screen, endTintColor, snap.EndTintAlpha, multiplyBlend)
	}

	if gs.showHitboxes {
		drawHitboxes(screen, snap.Targets)
	}

	gs.drawHUD(screen, snap)
	for _, b := range gs.buttons {
		b.draw(screen, gs.text, resultButtonText)
	}
}

// cameraGeoM 镜头变换：先平移与旋转，再把原点移到画布中心
func cameraGeoM(cam systems.Camera) ebiten.GeoM {
	var m ebiten.GeoM
	m.Translate(cam.X, cam.Y)
	m.Rotate(cam.Rotation * math.Pi / 180)
	m.Translate(config.CanvasWidth/2, config.CanvasHeight/2)
	return m
}

// drawWorld 绘制镜头空间内的内容：背景、目标、枪、火光、弹壳
func (gs *GameScene) drawWorld(screen *ebiten.Image, snap *systems.FrameSnapshot, cam ebiten.GeoM) {
	rm := gs.ctx.Resources
	if rm == nil {
		return
	}

	if bg := rm.GetImage(snap.Background); bg != nil {
		w := config.CanvasWidth * config.BackgroundScale
		h := config.CanvasHeight * config.BackgroundScale
		drawSprite(screen, bg, 0, 0, w, h, 0, cam, snap.BackgroundAlpha, ebiten.Blend{})
	}

	for _, t := range snap.Targets {
		img := rm.GetImage(t.Image)
		if img == nil {
			continue
		}
		drawSprite(screen, img, t.X+t.Width/2, t.Y+t.Height/2, t.Width, t.Height, t.Rotation, cam, 1, ebiten.Blend{})
	}

	if gun := rm.GetImage(snap.Gun.Image); gun != nil {
		g := snap.Gun
		drawSprite(screen, gun, g.X, g.Y, g.Width, g.Height, g.Rotation, cam, 1, ebiten.Blend{})
	}

	if snap.HasFlash {
		if flash := rm.GetImage(snap.Flash.Image); flash != nil {
			f := snap.Flash
			drawSprite(screen, flash, f.X, f.Y, f.Width, f.Height, 0, cam, flashAlpha, additiveBlend)
		}
	}

	for _, s := range snap.Shells {
		img := rm.GetImage(s.Image)
		if img == nil {
			continue
		}
		b := img.Bounds()
		w := float64(b.Dx()) * config.ShellScale
		h := float64(b.Dy()) * config.ShellScale
		drawSprite(screen, img, s.X, s.Y, w, h, s.Rotation, cam, 1, ebiten.Blend{})
	}
}

// drawSprite 以 (cx, cy) 为中心、w×h 为尺寸、rotation 度为旋转绘制贴图
func drawSprite(dst, img *ebiten.Image, cx, cy, w, h, rotation float64, cam ebiten.GeoM, alpha float64, blend ebiten.Blend) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Rotate(rotation * math.Pi / 180)
	op.GeoM.Translate(cx, cy)
	op.GeoM.Concat(cam)
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Filter = ebiten.FilterLinear
	op.Blend = blend
	dst.DrawImage(img, op)
}

// drawHitboxes 用半透明红色绘制有效碰撞盒（画布坐标）
func drawHitboxes(dst *ebiten.Image, targets []systems.TargetDraw) {
	for _, t := range targets {
		box := t.Box
		if !box.Ready {
			continue
		}
		vector.DrawFilledRect(dst, float32(box.X), float32(box.Y), float32(box.Width), float32(box.Height), hitboxColor, false)
	}
}

// hudLayout 一行 HUD 文字的位置、锚点和字号
type hudLayout struct {
	x, y   float64
	ax, ay float64
	size   float64
}

// hudLayouts 计算生命值、倒计时和分数的位置
// 进行中三者贴在画布边缘；结束后生命值和倒计时移出画面上沿，分数移到顶部中央并放大
func hudLayouts(resolved bool, sinceEnd float64) (health, countdown, score hudLayout) {
	health = hudLayout{x: hudMargin, y: 0, ax: 0, ay: 0, size: hudTextSize}
	countdown = hudLayout{x: config.CanvasWidth - hudMargin, y: 0, ax: 1, ay: 0, size: hudTextSize}
	score = hudLayout{x: config.CanvasWidth - hudMargin, y: config.CanvasHeight - hudScoreBottom, ax: 1, ay: 1, size: hudTextSize}
	if !resolved {
		return
	}

	shift := math.Min(sinceEnd*sinceEnd, 1)
	health.y = -shift * 10
	health.ay = shift
	countdown.y = -shift * 10
	countdown.ay = shift

	t := utils.EaseOutTanh(sinceEnd * 2)
	score.x = utils.Lerp(score.x, config.CanvasWidth/2, t)
	score.y = utils.Lerp(score.y, hudTextSize, t)
	score.ax = utils.Lerp(0, 0.5, t)
	score.ay = utils.Lerp(1, 0, t)
	score.size = utils.Lerp(hudTextSize, hudBannerSize, t)
	return
}

// resultBanner 结算标题文字
func resultBanner(outcome components.Outcome) string {
	if outcome == components.OutcomeWon {
		return "YOU SUCCEEDED!!!"
	}
	return "you lost."
}

// drawHUD 绘制生命值、倒计时、分数以及结算标题
func (gs *GameScene) drawHUD(screen *ebiten.Image, snap *systems.FrameSnapshot) {
	resolved := snap.State.IsResolved()
	health, countdown, score := hudLayouts(resolved, snap.SinceEnd)

	gs.drawHUDText(screen, snap.HUD.Health, health)
	gs.drawHUDText(screen, snap.HUD.Countdown, countdown)
	gs.drawHUDText(screen, snap.HUD.Score, score)

	if resolved {
		size := utils.EaseOutTanh(snap.SinceEnd*2) * hudBannerSize
		gs.text.drawStroked(screen, resultBanner(snap.Outcome), config.CanvasWidth/2, config.CanvasHeight/2, 0.5, 0.5, size, hudStroke)
	}
}

func (gs *GameScene) drawHUDText(screen *ebiten.Image, str string, l hudLayout) {
	gs.text.drawStroked(screen, str, l.x, l.y, l.ax, l.ay, l.size, hudStroke)
}
