package systems

import (
	"fmt"
	"math"

	"github.com/gonewx/whack/pkg/components"
	"github.com/gonewx/whack/pkg/config"
	"github.com/gonewx/whack/pkg/ecs"
	"github.com/gonewx/whack/pkg/utils"
)

// TargetDraw 一个目标的绘制参数
// X/Y/Width/Height 位于镜头空间（原点为画布中心）；Box 为画布坐标下的碰撞盒
type TargetDraw struct {
	ID       ecs.EntityID
	Image    string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Rotation float64 // 绕目标中心旋转（度）
	Box      components.CollisionComponent
}

// GunDraw 枪的绘制参数（镜头空间，以枪中心定位）
type GunDraw struct {
	Image    string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Rotation float64 // 度
}

// HUDText 抬头显示文字
type HUDText struct {
	Health    string // "100 HP"
	Countdown string // "ETA: 05.123 SECONDS"
	Score     string // "000150 PTS"
}

// FrameSnapshot 一帧的完整绘制数据
//
// 由关卡系统在每帧末尾生成，渲染层只读取它，不回写任何状态。
type FrameSnapshot struct {
	LevelID   string
	LevelName string
	State     LevelState
	Time      float64 // 关卡时间（秒）

	Camera          Camera
	Background      string
	BackgroundAlpha float64

	Targets  []TargetDraw // 按绘制顺序（最底层在前）
	Gun      GunDraw
	Flash    FlashDraw
	HasFlash bool
	Shells   []ShellDraw

	HurtAlpha    float64 // 红色受伤遮罩不透明度
	EndTintAlpha float64 // 结算时的正片叠底暗化程度，进行中为 0

	HUD      HUDText
	Outcome  components.Outcome
	SinceEnd float64 // 结束后经过的时间（秒），用于结算动画
	HasNext  bool    // 胜利后是否有下一关

	PointerX float64 // 指针画布坐标（未平滑）
	PointerY float64
	Hover    bool // 指针是否悬停在目标上
}

// FormatHealth 格式化生命值
func FormatHealth(health int) string {
	return fmt.Sprintf("%03d HP", health)
}

// FormatCountdown 格式化剩余时间，整数部分至少两位，保留三位小数
func FormatCountdown(remaining float64) string {
	return fmt.Sprintf("ETA: %06.3f SECONDS", math.Max(remaining, 0))
}

// FormatScore 格式化分数
func FormatScore(score int) string {
	return fmt.Sprintf("%06d PTS", score)
}

// BackgroundAlpha 背景不透明度：随生命值降低而变暗，结束后几乎全黑
func BackgroundAlpha(player *components.PlayerComponent, run *components.RunComponent) float64 {
	if run.IsResolved() {
		return 0.1
	}
	return utils.Clamp(player.HealthFraction(), 0.2, 1)
}

// HurtAlpha 受伤遮罩不透明度
// 受伤后一秒内从 1 淡出，同时不低于已损失生命值的比例
func HurtAlpha(player *components.PlayerComponent, now float64) float64 {
	alpha := math.Max(1-(now-player.LastHurtTime), 1-player.HealthFraction())
	return utils.Clamp(alpha, 0, 1)
}

// EndTintAlpha 结算暗化程度，随结束时间按 tanh 淡出，最低 0.4
func EndTintAlpha(run *components.RunComponent) float64 {
	if !run.IsResolved() {
		return 0
	}
	return math.Max(1-utils.EaseOutTanh(run.SinceEnd()), 0.4)
}

// GunImage 根据距上次开火的时间选择枪的贴图
func GunImage(run *components.RunComponent) string {
	if run.ElapsedTime-run.GunLastFire < config.GunRecoilSpriteTime {
		return config.GunRecoilImage
	}
	return config.GunDefaultImage
}

// targetDraw 计算目标的绘制参数，贴图未就绪时返回 false
func targetDraw(id ecs.EntityID, target *components.TargetComponent, box *components.CollisionComponent, assets AssetSource, now float64) (TargetDraw, bool) {
	if assets == nil {
		return TargetDraw{}, false
	}
	w, h, err := assets.ImageSize(target.Type.Image)
	if err != nil {
		return TargetDraw{}, false
	}

	imgW, imgH := float64(w), float64(h)
	width := imgW * target.Scale
	height := imgH * target.Scale
	return TargetDraw{
		ID:       id,
		Image:    target.Type.Image,
		X:        imgW*(target.LateralX-0.5) - width/2,
		Y:        -height/2 + target.BounceY*target.Scale*config.TargetOffsetScale,
		Width:    width,
		Height:   height,
		Rotation: TargetRotation(target, now),
		Box:      *box,
	}, true
}
