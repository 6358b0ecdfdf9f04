package systems

import (
	"log"
	"math"
	"sort"

	"github.com/gonewx/whack/pkg/components"
	"github.com/gonewx/whack/pkg/config"
	"github.com/gonewx/whack/pkg/ecs"
	"github.com/gonewx/whack/pkg/utils"
)

// Camera 镜头偏移（画布像素）与旋转（度）
type Camera struct {
	X        float64
	Y        float64
	Rotation float64
}

// TargetEvents 目标被移除时的回调
// 超时优先于击杀：同一帧内既超时又被打死的目标只触发 OnTargetExpired
type TargetEvents interface {
	OnTargetExpired(id ecs.EntityID, target *components.TargetComponent)
	OnTargetKilled(id ecs.EntityID, target *components.TargetComponent)
}

// TargetSystem 管理场上所有存活目标
//
// 职责：
//   - 创建目标实体（TargetComponent + CollisionComponent）
//   - 每帧重算目标的缩放、弹跳、摇摆和碰撞盒
//   - 维护目标的绘制顺序（按缩放后的经过时间升序，越晚越靠上）
//   - 移除超时或被击杀的目标，并通知回调
//
// 命中检测依赖 Order 返回的顺序：倒序遍历即可先命中最上层的目标。
type TargetSystem struct {
	entityManager *ecs.EntityManager
	assets        AssetSource
	order         []ecs.EntityID
}

// NewTargetSystem 创建目标系统
//
// 参数：
//   - em: 实体管理器
//   - assets: 贴图尺寸查询（可为 nil，此时所有碰撞盒均无效）
func NewTargetSystem(em *ecs.EntityManager, assets AssetSource) *TargetSystem {
	return &TargetSystem{
		entityManager: em,
		assets:        assets,
	}
}

// Spawn 创建一个目标实体
//
// 参数：
//   - targetType: 目标类型配置
//   - spawnTime: 生成的关卡时间（刷怪事件的计划时间）
//   - lateral: 横向位置 [0, 1)
//
// 返回：
//   - ecs.EntityID: 新实体ID
func (s *TargetSystem) Spawn(targetType *config.TargetTypeConfig, spawnTime, lateral float64) ecs.EntityID {
	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.TargetComponent{
		TypeID:      targetType.ID,
		Type:        targetType,
		SpawnTime:   spawnTime,
		LateralX:    lateral,
		LastHitSeed: 0.5,
	})
	ecs.AddComponent(s.entityManager, id, &components.CollisionComponent{})
	s.order = append(s.order, id)
	return id
}

// Order 返回当前绘制顺序（最底层在前）
// 返回的切片属于目标系统，调用方不得修改
func (s *TargetSystem) Order() []ecs.EntityID {
	return s.order
}

// Count 返回存活目标数量
func (s *TargetSystem) Count() int {
	return len(s.order)
}

// Clear 移除全部目标实体（包括尚未进入绘制顺序的实体）
func (s *TargetSystem) Clear() {
	for _, id := range ecs.GetEntitiesWith2[*components.TargetComponent, *components.CollisionComponent](s.entityManager) {
		s.entityManager.DestroyEntity(id)
	}
	s.entityManager.RemoveMarkedEntities()
	s.order = s.order[:0]
}

// Update 重算所有目标的动画状态和碰撞盒，然后按经过时间重新排序
//
// 参数：
//   - now: 当前关卡时间（秒）
//   - cam: 当前镜头偏移（碰撞盒与绘制使用同一偏移）
func (s *TargetSystem) Update(now float64, cam Camera) {
	for _, id := range s.order {
		target, ok := ecs.GetComponent[*components.TargetComponent](s.entityManager, id)
		if !ok {
			continue
		}
		box, ok := ecs.GetComponent[*components.CollisionComponent](s.entityManager, id)
		if !ok {
			continue
		}

		raw := now - target.SpawnTime
		target.RawElapsed = raw
		target.Elapsed = raw * target.Type.Speed
		target.Scale = config.TargetGrowthFactor * target.Elapsed * target.Elapsed
		target.BounceY = -math.Abs(math.Sin(raw*config.TargetBounceFrequency)) * target.Type.BounceHeight
		target.Sway = math.Cos(raw*config.TargetBounceFrequency) * config.TargetSwayDegrees

		s.updateBox(target, box, cam)
	}

	sort.SliceStable(s.order, func(i, j int) bool {
		return s.elapsedOf(s.order[i]) < s.elapsedOf(s.order[j])
	})
}

// updateBox 根据贴图尺寸重算碰撞盒
// 贴图尚未就绪时碰撞盒标记为无效
func (s *TargetSystem) updateBox(target *components.TargetComponent, box *components.CollisionComponent, cam Camera) {
	if s.assets == nil {
		*box = components.CollisionComponent{}
		return
	}
	w, h, err := s.assets.ImageSize(target.Type.Image)
	if err != nil {
		*box = components.CollisionComponent{}
		return
	}

	imgW, imgH := float64(w), float64(h)
	box.Width = (imgW + target.Type.HitboxAdjust.X) * target.Scale
	box.Height = (imgH + target.Type.HitboxAdjust.Y) * target.Scale
	box.X = cam.X + config.CanvasWidth/2 + imgW*(target.LateralX-0.5) - box.Width/2
	box.Y = cam.Y + config.CanvasHeight/2 - box.Height/2 + target.BounceY*target.Scale*config.TargetOffsetScale
	box.Ready = true
}

func (s *TargetSystem) elapsedOf(id ecs.EntityID) float64 {
	if target, ok := ecs.GetComponent[*components.TargetComponent](s.entityManager, id); ok {
		return target.Elapsed
	}
	return 0
}

// Prune 移除超时或被击杀的目标
//
// 超时判定优先：超时的目标即使命中次数已满也按超时处理。
// events 可为 nil（例如关卡结束后只清理不结算）。
//
// 返回：
//   - expired: 超时移除的数量
//   - killed: 击杀移除的数量
func (s *TargetSystem) Prune(events TargetEvents) (expired, killed int) {
	kept := s.order[:0]
	for _, id := range s.order {
		target, ok := ecs.GetComponent[*components.TargetComponent](s.entityManager, id)
		if !ok {
			continue
		}

		switch {
		case target.IsExpired():
			expired++
			s.entityManager.DestroyEntity(id)
			if events != nil {
				events.OnTargetExpired(id, target)
			}
		case target.IsDead():
			killed++
			s.entityManager.DestroyEntity(id)
			if events != nil {
				events.OnTargetKilled(id, target)
			}
		default:
			kept = append(kept, id)
		}
	}
	s.order = kept
	s.entityManager.RemoveMarkedEntities()

	if expired > 0 || killed > 0 {
		log.Printf("[TargetSystem] Pruned %d expired, %d killed, %d remaining", expired, killed, len(s.order))
	}
	return expired, killed
}

// TargetRotation 返回目标的绘制旋转角度（度）
// 在摇摆基础上叠加受击抖动，抖动在命中后一秒内衰减到零
func TargetRotation(target *components.TargetComponent, now float64) float64 {
	rotation := target.Sway
	if target.Hits > 0 {
		wobble := utils.DecayQuart(now-target.LastHitTime) * (target.LastHitSeed - 0.5) * config.TargetHitWobbleDegrees
		rotation += wobble
	}
	return rotation
}
