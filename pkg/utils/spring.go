package utils

// Spring 单轴阻尼弹簧（阻尼谐振子）
//
// 用于枪械后坐力和受伤抖动：冲量只改变速度，
// 每帧积分后位置在无新冲量时衰减回 0。
// 不对位置做任何限制，允许过冲。
type Spring struct {
	Position  float64 // 当前偏移
	Velocity  float64 // 当前速度
	Stiffness float64 // 刚度 k
	Damping   float64 // 阻尼 c
}

// NewSpring 创建静止的弹簧
func NewSpring(stiffness, damping float64) *Spring {
	return &Spring{
		Stiffness: stiffness,
		Damping:   damping,
	}
}

// Impulse 施加瞬时冲量（速度增量）
func (s *Spring) Impulse(dv float64) {
	s.Velocity += dv
}

// Advance 半隐式欧拉积分一步
// 先用当前位置和速度更新速度，再用新速度更新位置
func (s *Spring) Advance(dt float64) {
	accel := -s.Stiffness*s.Position - s.Damping*s.Velocity
	s.Velocity += accel * dt
	s.Position += s.Velocity * dt
}
