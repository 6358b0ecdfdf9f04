package components

// PlayerComponent 玩家状态
// 每次加载关卡时重置
type PlayerComponent struct {
	Health       int     // 当前生命值
	MaxHealth    int     // 最大生命值
	LastHurtTime float64 // 最后一次受伤的关卡时间（秒）

	DisplayedScore int // 当前显示的分数（滚动中）
	TargetScore    int // 实际累计分数
}

// HealthFraction 返回生命值比例 [0, 1]
func (p *PlayerComponent) HealthFraction() float64 {
	if p.MaxHealth <= 0 {
		return 0
	}
	return float64(p.Health) / float64(p.MaxHealth)
}

// IsDead 生命值是否已归零
func (p *PlayerComponent) IsDead() bool {
	return p.Health <= 0
}
