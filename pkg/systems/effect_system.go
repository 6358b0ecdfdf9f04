package systems

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/gonewx/whack/pkg/components"
	"github.com/gonewx/whack/pkg/config"
	"github.com/gonewx/whack/pkg/ecs"
)

// FlashDraw 一帧枪口火光的绘制参数（镜头空间，以枪为中心）
type FlashDraw struct {
	Image  string
	X      float64 // 火光中心X
	Y      float64 // 火光中心Y
	Width  float64
	Height float64
}

// ShellDraw 一个弹壳的绘制参数（镜头空间）
type ShellDraw struct {
	Image    string
	X        float64 // 弹壳中心X
	Y        float64 // 弹壳中心Y
	Rotation float64 // 度
}

// EffectSystem 管理开火产生的装饰特效：枪口火光和抛壳
//
// 火光按开火顺序排队，每帧最多绘制一个；贴图未就绪的火光放回队尾等待下一帧。
// 弹壳作为实体存在，轨迹由初速度和重力解析计算，超过寿命后移除。
type EffectSystem struct {
	entityManager *ecs.EntityManager
	assets        AssetSource
	flashes       []string
}

// NewEffectSystem 创建特效系统
func NewEffectSystem(em *ecs.EntityManager, assets AssetSource) *EffectSystem {
	return &EffectSystem{
		entityManager: em,
		assets:        assets,
	}
}

// MuzzleFlashImage 返回第 variant 种枪口火光贴图路径
func MuzzleFlashImage(variant int) string {
	return fmt.Sprintf(config.MuzzleFlashPattern, variant)
}

// ShellImage 返回第 variant 种弹壳贴图路径
func ShellImage(variant int) string {
	return fmt.Sprintf(config.ShellImagePattern, variant)
}

// AddFlash 排入一个随机枪口火光
func (s *EffectSystem) AddFlash(rng *rand.Rand) {
	s.flashes = append(s.flashes, MuzzleFlashImage(rng.Intn(config.MuzzleFlashVariants)))
}

// PendingFlashes 返回排队中的火光数量
func (s *EffectSystem) PendingFlashes() int {
	return len(s.flashes)
}

// NextFlash 取出本帧要绘制的火光
//
// 取最近一次开火的火光；贴图仍在加载时放回队列最前端，本帧不绘制。
// 其他加载错误直接丢弃该火光。
func (s *EffectSystem) NextFlash(gunX, gunY float64, rng *rand.Rand) (FlashDraw, bool) {
	n := len(s.flashes)
	if n == 0 {
		return FlashDraw{}, false
	}
	image := s.flashes[n-1]
	s.flashes = s.flashes[:n-1]

	if s.assets == nil {
		return FlashDraw{}, false
	}
	if _, _, err := s.assets.ImageSize(image); err != nil {
		if errors.Is(err, config.ErrResourceNotReady) {
			s.flashes = append([]string{image}, s.flashes...)
		}
		return FlashDraw{}, false
	}

	scale := 0.8 + rng.Float64()*0.2
	return FlashDraw{
		Image:  image,
		X:      gunX + 10 + rng.Float64()*5,
		Y:      gunY - 50 + rng.Float64()*5,
		Width:  config.CanvasWidth * scale,
		Height: config.CanvasHeight * scale,
	}, true
}

// AddShell 从枪的位置抛出一个弹壳
func (s *EffectSystem) AddShell(gunX, gunY, now float64, rng *rand.Rand) ecs.EntityID {
	angle := rng.Float64()
	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.ShellComponent{
		Image:     ShellImage(rng.Intn(config.ShellVariants)),
		OriginX:   gunX,
		OriginY:   gunY,
		VelocityX: math.Cos(angle) * config.ShellSpeedX,
		VelocityY: -math.Sin(angle)*config.ShellSpeedY - config.ShellLift,
		Spin:      config.ShellSpinMin + rng.Float64()*config.ShellSpinRange,
		StartTime: now,
	})
	return id
}

// Update 移除超过寿命的弹壳
func (s *EffectSystem) Update(now float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.ShellComponent](s.entityManager) {
		shell, _ := ecs.GetComponent[*components.ShellComponent](s.entityManager, id)
		if now-shell.StartTime > config.ShellLifetime {
			s.entityManager.DestroyEntity(id)
		}
	}
	s.entityManager.RemoveMarkedEntities()
}

// Shells 返回所有弹壳的当前绘制参数
// 弹壳横向漂移叠加了准星的横向速度，模拟抛壳跟随枪身甩动
func (s *EffectSystem) Shells(now, swayX float64) []ShellDraw {
	ids := ecs.GetEntitiesWith1[*components.ShellComponent](s.entityManager)
	draws := make([]ShellDraw, 0, len(ids))
	for _, id := range ids {
		shell, _ := ecs.GetComponent[*components.ShellComponent](s.entityManager, id)
		e := now - shell.StartTime
		draws = append(draws, ShellDraw{
			Image:    shell.Image,
			X:        shell.OriginX + (shell.VelocityX+swayX)*e,
			Y:        shell.OriginY + shell.VelocityY*e + 0.5*config.ShellGravity*e*e,
			Rotation: e * shell.Spin,
		})
	}
	return draws
}

// Clear 清空火光队列并移除全部弹壳
func (s *EffectSystem) Clear() {
	s.flashes = s.flashes[:0]
	for _, id := range ecs.GetEntitiesWith1[*components.ShellComponent](s.entityManager) {
		s.entityManager.DestroyEntity(id)
	}
	s.entityManager.RemoveMarkedEntities()
}
