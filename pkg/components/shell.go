package components

// ShellComponent 抛出的弹壳（纯装饰）
// 轨迹由初速度和重力解析计算，不参与任何碰撞
type ShellComponent struct {
	Image     string  // 贴图路径
	OriginX   float64 // 抛出点X（镜头空间）
	OriginY   float64 // 抛出点Y（镜头空间）
	VelocityX float64 // 初速度X
	VelocityY float64 // 初速度Y
	Spin      float64 // 旋转速度（度/秒）
	StartTime float64 // 抛出时的关卡时间（秒）
}
