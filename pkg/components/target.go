package components

import "github.com/gonewx/whack/pkg/config"

// TargetComponent 打地鼠目标的运行时状态
// 由刷怪调度器创建，由目标系统在超时或被击杀时移除
type TargetComponent struct {
	TypeID string                   // 目标类型ID
	Type   *config.TargetTypeConfig // 目标类型配置（只读）

	SpawnTime float64 // 生成时的关卡时间（秒）
	LateralX  float64 // 横向位置 [0, 1)，生成时随机确定

	Hits        int     // 已命中次数
	LastHitTime float64 // 最后一次命中的关卡时间（秒）
	LastHitSeed float64 // 最后一次命中的随机种子，仅用于受击抖动方向

	// 以下字段每帧由目标系统重算
	RawElapsed float64 // 生成后经过的关卡时间（秒）
	Elapsed    float64 // 按类型速度缩放后的经过时间
	Scale      float64 // 当前缩放
	BounceY    float64 // 弹跳偏移（缩放前）
	Sway       float64 // 摇摆角度（度）
}

// IsDead 是否已达到击杀所需命中次数
func (t *TargetComponent) IsDead() bool {
	return t.Hits >= t.Type.Health
}

// IsExpired 是否已超过最长存活时间
func (t *TargetComponent) IsExpired() bool {
	return t.Elapsed > config.TargetMaxLifetime
}
