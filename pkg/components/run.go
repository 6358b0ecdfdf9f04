package components

// Outcome 关卡结果
type Outcome int

const (
	// OutcomeNone 关卡进行中（或尚未开始）
	OutcomeNone Outcome = iota
	// OutcomeWon 坚持到关卡时长结束
	OutcomeWon
	// OutcomeLost 生命值归零
	OutcomeLost
)

// String 返回结果名称（用于日志）
func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	default:
		return "none"
	}
}

// RunComponent 单局运行状态
type RunComponent struct {
	LevelID     string  // 当前关卡ID
	ElapsedTime float64 // 关卡已进行时间（秒）
	Duration    float64 // 关卡时长（秒），开局时由刷怪表推导，之后不变
	EndTime     float64 // 结束时的关卡时间（秒）
	Outcome     Outcome // 结果

	GunLastFire float64 // 最后一次开火的关卡时间（秒）
}

// IsResolved 关卡是否已分出胜负
func (r *RunComponent) IsResolved() bool {
	return r.Outcome != OutcomeNone
}

// Remaining 返回剩余时间（秒），不小于 0
func (r *RunComponent) Remaining() float64 {
	if rem := r.Duration - r.ElapsedTime; rem > 0 {
		return rem
	}
	return 0
}

// SinceEnd 返回结束后经过的时间（秒），未结束时返回 0
func (r *RunComponent) SinceEnd() float64 {
	if !r.IsResolved() {
		return 0
	}
	return r.ElapsedTime - r.EndTime
}
