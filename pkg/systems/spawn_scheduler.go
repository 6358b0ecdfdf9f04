package systems

import (
	"container/heap"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/gonewx/whack/pkg/config"
)

// TargetLookup 按ID查找目标类型
// 找不到时返回包装了 config.ErrMissingEntityDefinition 的错误
type TargetLookup interface {
	Target(id string) (*config.TargetTypeConfig, error)
}

// SpawnFunc 刷怪事件触发时的回调
// at 为事件的计划时间（不是实际触发的帧时间）
type SpawnFunc func(targetType *config.TargetTypeConfig, at float64)

// SpawnEvent 一个已排期的刷怪事件（或关卡结束事件）
type SpawnEvent struct {
	TargetID string  // 目标类型ID，结束事件为空
	Time     float64 // 计划触发的关卡时间（秒）

	targetType *config.TargetTypeConfig
	deadline   bool
	generation uint64
	seq        uint64
	cancelled  bool
	fired      bool
	scheduler  *SpawnScheduler
}

// Cancel 取消事件，重复调用或对已触发事件调用都是无操作
func (e *SpawnEvent) Cancel() {
	if e.cancelled || e.fired {
		return
	}
	e.cancelled = true
	if e.scheduler != nil {
		e.scheduler.pending--
	}
}

// Cancelled 事件是否已取消
func (e *SpawnEvent) Cancelled() bool {
	return e.cancelled
}

// Fired 事件是否已触发
func (e *SpawnEvent) Fired() bool {
	return e.fired
}

// eventQueue 按 (Time, seq) 排序的最小堆
type eventQueue []*SpawnEvent

func (q eventQueue) Len() int { return len(q) }
func (q eventQueue) Less(i, j int) bool {
	if q[i].Time != q[j].Time {
		return q[i].Time < q[j].Time
	}
	return q[i].seq < q[j].seq
}
func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *eventQueue) Push(x any)   { *q = append(*q, x.(*SpawnEvent)) }
func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// SpawnScheduler 刷怪调度器
//
// 开局时把关卡刷怪表展开为一组按关卡时间排序的事件，每帧由 Advance 触发到期事件。
// 所有事件都属于当前一代（generation）；Start/Stop 会让上一代事件全部失效，
// 旧事件若仍被触发说明取消逻辑有缺陷，直接 panic。
//
// 关卡结束事件在时长到达时停止剩余刷怪；胜负判定由关卡系统负责。
type SpawnScheduler struct {
	queue      eventQueue
	events     []*SpawnEvent
	generation uint64
	seq        uint64
	pending    int
	duration   float64
	spawn      SpawnFunc
}

// NewSpawnScheduler 创建刷怪调度器
//
// 参数：
//   - spawn: 刷怪回调，每个到期的刷怪事件调用一次
func NewSpawnScheduler(spawn SpawnFunc) *SpawnScheduler {
	return &SpawnScheduler{spawn: spawn}
}

// ComputeLevelDuration 根据刷怪表计算关卡时长（秒）
//
// 时长 = max(间隔 × (数量 − 1) + 最长存活时间 / 速度 + 延迟) + 缓冲时间
// 引用了不存在的目标类型的条目不参与计算，其错误通过 errors.Join 合并返回。
func ComputeLevelDuration(level *config.LevelConfig, lookup TargetLookup) (float64, error) {
	var errs []error
	longest := 0.0
	for _, id := range sortedEnemyIDs(level) {
		entry := level.Enemies[id]
		t, err := lookup.Target(id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		end := entry.IntervalSeconds()*float64(entry.Count-1) + t.Lifetime() + entry.DelaySeconds()
		longest = math.Max(longest, end)
	}
	return longest + config.LevelDurationBuffer, errors.Join(errs...)
}

// Start 为关卡排期全部刷怪事件，返回关卡时长
//
// 之前排期的事件全部作废。引用不存在的目标类型的条目会被跳过并记录日志，
// 其余条目照常排期；跳过的原因通过返回的 error 报告（包装 ErrMissingEntityDefinition）。
func (s *SpawnScheduler) Start(level *config.LevelConfig, lookup TargetLookup) (float64, error) {
	s.Stop()

	var errs []error
	for _, id := range sortedEnemyIDs(level) {
		entry := level.Enemies[id]
		t, err := lookup.Target(id)
		if err != nil {
			log.Printf("[SpawnScheduler] Level %s: skipping spawn entry %q: %v", level.ID, id, err)
			errs = append(errs, fmt.Errorf("level %s: %w", level.ID, err))
			continue
		}
		for i := 0; i < entry.Count; i++ {
			at := entry.DelaySeconds() + entry.IntervalSeconds()*float64(i)
			s.push(&SpawnEvent{TargetID: id, Time: at, targetType: t})
		}
	}

	duration, _ := ComputeLevelDuration(level, lookup)
	s.duration = duration
	s.push(&SpawnEvent{Time: duration, deadline: true})

	log.Printf("[SpawnScheduler] Level %s: scheduled %d spawns, duration %.3fs", level.ID, s.pending-1, duration)
	return duration, errors.Join(errs...)
}

// push 把事件加入当前一代
func (s *SpawnScheduler) push(e *SpawnEvent) {
	s.seq++
	e.seq = s.seq
	e.generation = s.generation
	e.scheduler = s
	heap.Push(&s.queue, e)
	s.events = append(s.events, e)
	s.pending++
}

// Advance 触发所有计划时间不晚于 now 的事件，返回触发的刷怪数量
func (s *SpawnScheduler) Advance(now float64) int {
	spawned := 0
	for s.queue.Len() > 0 && s.queue[0].Time <= now {
		e := heap.Pop(&s.queue).(*SpawnEvent)
		if e.cancelled {
			continue
		}
		if e.generation != s.generation {
			panic(fmt.Sprintf("spawn scheduler: stale event for %q (generation %d, current %d)", e.TargetID, e.generation, s.generation))
		}

		e.fired = true
		s.pending--

		if e.deadline {
			s.cancelRemaining()
			continue
		}
		if s.spawn != nil {
			s.spawn(e.targetType, e.Time)
		}
		spawned++
	}
	return spawned
}

// Stop 取消所有未触发的事件并开始新的一代
func (s *SpawnScheduler) Stop() {
	s.cancelRemaining()
	s.queue = s.queue[:0]
	s.events = nil
	s.pending = 0
	s.generation++
}

// cancelRemaining 取消当前一代中所有未触发的事件
func (s *SpawnScheduler) cancelRemaining() {
	for _, e := range s.events {
		e.Cancel()
	}
}

// Pending 返回尚未触发且未取消的事件数（包括关卡结束事件）
func (s *SpawnScheduler) Pending() int {
	return s.pending
}

// Duration 返回当前关卡时长（秒）
func (s *SpawnScheduler) Duration() float64 {
	return s.duration
}

// Events 返回当前一代的全部事件（按排期顺序），仅供检查
func (s *SpawnScheduler) Events() []*SpawnEvent {
	return append([]*SpawnEvent(nil), s.events...)
}

// sortedEnemyIDs 返回按ID排序的刷怪表键，保证排期顺序确定
func sortedEnemyIDs(level *config.LevelConfig) []string {
	ids := make([]string, 0, len(level.Enemies))
	for id := range level.Enemies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
