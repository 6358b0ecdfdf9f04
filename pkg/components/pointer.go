package components

// PointerComponent 准星（鼠标）状态
//
// Target 为最后一次收到的画布内指针坐标；X/Y 每帧向 Target 平滑逼近，
// DiffX 是平滑后的横向速度估计，用于镜头倾斜、枪口倾斜和弹壳横向漂移。
type PointerComponent struct {
	TargetX float64
	TargetY float64
	X       float64
	Y       float64
	DiffX   float64
}
