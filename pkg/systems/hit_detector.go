package systems

import (
	"github.com/gonewx/whack/pkg/components"
	"github.com/gonewx/whack/pkg/ecs"
)

// HitDetector 把指针坐标映射到场上的目标
//
// 扫描顺序与绘制顺序相反（最上层优先），每次开火至多命中一个目标。
// 是否允许开火（生命值、关卡是否结束）由关卡系统判断。
type HitDetector struct {
	entityManager *ecs.EntityManager
	targets       *TargetSystem
}

// NewHitDetector 创建命中检测器
func NewHitDetector(em *ecs.EntityManager, targets *TargetSystem) *HitDetector {
	return &HitDetector{
		entityManager: em,
		targets:       targets,
	}
}

// TargetAt 返回覆盖该点的最上层目标
func (d *HitDetector) TargetAt(x, y float64) (ecs.EntityID, bool) {
	order := d.targets.Order()
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		box, ok := ecs.GetComponent[*components.CollisionComponent](d.entityManager, id)
		if !ok {
			continue
		}
		if box.Contains(x, y) {
			return id, true
		}
	}
	return 0, false
}

// Fire 在 (x, y) 处开一枪
//
// 命中时目标命中次数加一，并记录命中时间与抖动种子。
//
// 参数：
//   - x, y: 指针画布坐标
//   - now: 当前关卡时间
//   - seed: [0, 1) 随机数，决定受击抖动方向
//
// 返回：
//   - ecs.EntityID: 被命中的目标
//   - bool: 是否命中
func (d *HitDetector) Fire(x, y, now, seed float64) (ecs.EntityID, bool) {
	id, ok := d.TargetAt(x, y)
	if !ok {
		return 0, false
	}
	target, ok := ecs.GetComponent[*components.TargetComponent](d.entityManager, id)
	if !ok {
		return 0, false
	}
	target.Hits++
	target.LastHitTime = now
	target.LastHitSeed = seed
	return id, true
}

// Hover 指针是否悬停在任何目标上（用于切换准星样式）
func (d *HitDetector) Hover(x, y float64) bool {
	_, ok := d.TargetAt(x, y)
	return ok
}
