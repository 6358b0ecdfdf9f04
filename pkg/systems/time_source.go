package systems

import (
	"time"

	"github.com/gonewx/whack/pkg/config"
)

// Clock 返回当前时间
// 生产环境使用 time.Now，测试中注入可控的假时钟
type Clock func() time.Time

// TimeSource 把真实时间换算为关卡时间增量
//
// 规则：
//   - 新关卡的第一帧使用名义帧时长（1/60 秒）
//   - 单帧增量被限制在 [0, MaxFrameTime] 内，防止切后台回来后一次推进过多
//   - 失去焦点期间不产生任何增量；恢复焦点后，失焦时长从计时中扣除
//   - 增量最后乘以时间缩放系数（timescale）
type TimeSource struct {
	clock     Clock
	last      time.Time
	hasLast   bool
	timescale float64

	focused   bool
	blurStart time.Time
}

// NewTimeSource 创建时间源
// clock 为 nil 时使用 time.Now
func NewTimeSource(clock Clock) *TimeSource {
	if clock == nil {
		clock = time.Now
	}
	return &TimeSource{
		clock:     clock,
		timescale: 1,
		focused:   true,
	}
}

// Reset 清除上一帧时间戳，下一帧按新关卡的第一帧处理
func (ts *TimeSource) Reset() {
	ts.hasLast = false
}

// SetTimescale 设置时间缩放系数，非正数视为 1
func (ts *TimeSource) SetTimescale(scale float64) {
	if scale <= 0 {
		scale = 1
	}
	ts.timescale = scale
}

// Timescale 返回当前时间缩放系数
func (ts *TimeSource) Timescale() float64 {
	return ts.timescale
}

// SetFocused 更新窗口焦点状态
//
// 失焦时记录开始时间；重新获得焦点时把失焦时长加到上一帧时间戳上，
// 这样恢复后的第一帧增量只包含失焦前后实际运行的时间。
func (ts *TimeSource) SetFocused(focused bool) {
	if focused == ts.focused {
		return
	}
	now := ts.clock()
	if !focused {
		ts.focused = false
		ts.blurStart = now
		return
	}

	ts.focused = true
	if ts.hasLast {
		ts.last = ts.last.Add(now.Sub(ts.blurStart))
	}
}

// Waiting 是否处于失焦等待状态
func (ts *TimeSource) Waiting() bool {
	return !ts.focused
}

// NextFrame 返回本帧的关卡时间增量（秒）
// 失焦期间返回 0，调用方应跳过本帧
func (ts *TimeSource) NextFrame() float64 {
	if !ts.focused {
		return 0
	}

	now := ts.clock()
	if !ts.hasLast {
		ts.hasLast = true
		ts.last = now
		return config.NominalFrameTime
	}

	dt := now.Sub(ts.last).Seconds()
	ts.last = now
	if dt < 0 {
		dt = 0
	}
	if dt > config.MaxFrameTime {
		dt = config.MaxFrameTime
	}
	return dt * ts.timescale
}
