package systems

import (
	"math"

	"github.com/gonewx/whack/pkg/components"
	"github.com/gonewx/whack/pkg/config"
)

// ScoreAnimator 让显示分数向实际分数滚动
type ScoreAnimator struct{}

// NewScoreAnimator 创建分数滚动器
func NewScoreAnimator() *ScoreAnimator {
	return &ScoreAnimator{}
}

// Update 推进一帧的分数滚动
//
// 关卡结束后的第一秒内显示分数固定为 0，之后从 0 重新滚动到实际分数，
// 配合结算界面把分数移到屏幕中央的动画。
func (a *ScoreAnimator) Update(player *components.PlayerComponent, run *components.RunComponent, dt float64) {
	if run.IsResolved() && run.SinceEnd() < config.ResultRevealDelay {
		player.DisplayedScore = 0
		return
	}
	player.DisplayedScore = StepScore(player.DisplayedScore, player.TargetScore, dt)
}

// StepScore 计算一帧后的显示分数
// 每帧至少增加 1，且不会超过目标分数；显示分数不小于目标分数时保持不变
func StepScore(displayed, target int, dt float64) int {
	if displayed >= target {
		return displayed
	}
	diff := target - displayed
	inc := int(math.Floor(float64(diff) * dt * config.ScoreCountRate))
	if inc < 1 {
		inc = 1
	}
	displayed += inc
	if displayed > target {
		displayed = target
	}
	return displayed
}
