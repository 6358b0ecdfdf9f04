package components

// CollisionComponent 目标的轴对齐碰撞盒（画布坐标）
// 每帧由目标系统根据当前状态完整重算，不单独持久化
type CollisionComponent struct {
	X      float64 // 左上角X（像素）
	Y      float64 // 左上角Y（像素）
	Width  float64 // 宽度（像素）
	Height float64 // 高度（像素）

	// Ready 贴图尺寸已知时为 true；为 false 时碰撞盒无效，不参与命中判定
	Ready bool
}

// Contains 检查点是否落在碰撞盒内（边界包含在内）
func (c *CollisionComponent) Contains(x, y float64) bool {
	if !c.Ready {
		return false
	}
	return x >= c.X && x <= c.X+c.Width && y >= c.Y && y <= c.Y+c.Height
}
