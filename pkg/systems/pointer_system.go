package systems

import (
	"math"

	"github.com/gonewx/whack/pkg/components"
	"github.com/gonewx/whack/pkg/config"
	"github.com/gonewx/whack/pkg/utils"
)

// NewPointer 返回关卡开始时的准星状态
// 准星从画面下方升起，平滑移动到默认瞄准点
func NewPointer() components.PointerComponent {
	return components.PointerComponent{
		TargetX: config.CanvasWidth / 2,
		TargetY: config.PointerStartY,
		X:       config.CanvasWidth / 2,
		Y:       config.PointerStartY + config.PointerStartDrop,
	}
}

// UpdatePointer 让准星向最新指针位置平滑逼近
//
// 混合系数按 60fps 归一化，保证不同帧率下手感一致：
//
//	blend1 = min(1, dt·60·PointerFollowRate)   位置跟随
//	blend2 = min(1, dt·60·PointerSwayRate)     横向速度估计
func UpdatePointer(p *components.PointerComponent, dt float64) {
	blend1 := math.Min(1, dt*60*config.PointerFollowRate)
	blend2 := math.Min(1, dt*60*config.PointerSwayRate)

	nextX := utils.Lerp(p.X, p.TargetX, blend1)
	p.DiffX = utils.Lerp(p.DiffX, nextX-p.X, blend2)
	p.X = nextX
	p.Y = utils.Lerp(p.Y, p.TargetY, blend1)
}

// ComputeCamera 根据准星和后坐力弹簧计算镜头偏移
//
// 参数：
//   - p: 准星状态
//   - recoil: 后坐力弹簧
//   - enabled: 是否启用镜头视差；关闭时镜头固定在原点
func ComputeCamera(p *components.PointerComponent, recoil *RecoilSprings, enabled bool) Camera {
	if !enabled {
		return Camera{}
	}
	return Camera{
		X:        -config.CameraParallax*(p.X-config.CanvasWidth/2) - recoil.X.Position,
		Y:        -config.CameraParallax*(p.Y-config.CanvasHeight/2) - recoil.Y.Position,
		Rotation: p.DiffX*config.CameraSwayRatio - recoil.Rot.Position,
	}
}

// RecoilSprings 枪的后坐力弹簧（旋转、X、Y）
// 玩家受伤时也会冲击这组弹簧，产生屏幕震动
// 弹簧状态跨关卡保留，新关卡开局时可能仍有余震
type RecoilSprings struct {
	Rot *utils.Spring
	X   *utils.Spring
	Y   *utils.Spring
}

// NewRecoilSprings 使用默认参数创建后坐力弹簧
func NewRecoilSprings() *RecoilSprings {
	return &RecoilSprings{
		Rot: utils.NewSpring(config.SpringRotStiffness, config.SpringRotDamping),
		X:   utils.NewSpring(config.SpringXStiffness, config.SpringXDamping),
		Y:   utils.NewSpring(config.SpringYStiffness, config.SpringYDamping),
	}
}

// Advance 推进全部弹簧
func (r *RecoilSprings) Advance(dt float64) {
	r.Rot.Advance(dt)
	r.X.Advance(dt)
	r.Y.Advance(dt)
}

// Kick 施加一次开火后坐力
// impulseX 为 [-GunRecoilSpreadX, GunRecoilSpreadX) 的随机横向冲量
func (r *RecoilSprings) Kick(impulseX float64) {
	r.Rot.Impulse(impulseX * config.GunRecoilRotationRatio)
	r.X.Impulse(impulseX)
	r.Y.Impulse(config.GunRecoilImpulse)
}

// GunPosition 返回枪在镜头空间中的中心位置
func GunPosition(p *components.PointerComponent, recoil *RecoilSprings) (x, y float64) {
	x = p.X - config.CanvasWidth*0.5 + recoil.X.Position
	y = config.CanvasHeight*0.5 - config.GunBaseOffsetY + math.Abs(p.DiffX) + p.Y*config.GunPointerFollowY + recoil.Y.Position*2
	return x, y
}
