package scenes

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputSource 场景读取输入的来源
// 默认实现直接读 ebiten 输入；测试中替换为脚本化的输入
type InputSource interface {
	// Pointer 返回指针位置（触摸优先，其次鼠标）
	Pointer() (x, y int)
	// JustClicked 本帧是否刚按下鼠标左键或开始触摸
	JustClicked() bool
	// KeyJustPressed 本帧是否刚按下指定按键
	KeyJustPressed(key ebiten.Key) bool
	// Focused 窗口是否拥有焦点
	Focused() bool
	// SetHover 根据是否悬停在可交互对象上切换光标形状
	SetHover(hover bool)
}

// ebitenInput 基于 ebiten 的输入实现
type ebitenInput struct {
	pointer pointerTracker
	hover   bool
}

// NewEbitenInput 创建读取 ebiten 输入的 InputSource
func NewEbitenInput() InputSource {
	return &ebitenInput{}
}

func (in *ebitenInput) Pointer() (int, int) {
	in.pointer.Update()
	return in.pointer.Position()
}

func (in *ebitenInput) JustClicked() bool {
	clicked, _, _ := isJustTouchedOrClicked()
	return clicked
}

func (in *ebitenInput) KeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

func (in *ebitenInput) Focused() bool {
	return ebiten.IsFocused()
}

func (in *ebitenInput) SetHover(hover bool) {
	if hover == in.hover {
		return
	}
	in.hover = hover
	if hover {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeCrosshair)
	}
}

// isJustTouchedOrClicked 检查是否刚刚发生点击或触摸
// 返回是否点击以及点击位置
func isJustTouchedOrClicked() (bool, int, int) {
	// 检查触摸
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	// 检查鼠标
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}

// pointerTracker 统一鼠标与触摸的瞄准位置
//
// 触摸期间使用第一个触摸点；手指离开后保持最后的触摸位置，
// 直到鼠标真正移动才切回鼠标位置（触屏设备上光标位置通常停在原点）。
type pointerTracker struct {
	x, y           int
	mouseX, mouseY int
	hasMouse       bool
	touched        bool
}

// Update 读取本帧的触摸与鼠标状态，每帧调用一次
func (p *pointerTracker) Update() {
	mx, my := ebiten.CursorPosition()
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		tx, ty := ebiten.TouchPosition(touchIDs[0])
		p.observe(true, tx, ty, mx, my)
		return
	}
	p.observe(false, 0, 0, mx, my)
}

// observe 根据触摸与鼠标位置更新瞄准位置
func (p *pointerTracker) observe(touching bool, tx, ty, mx, my int) {
	mouseMoved := !p.hasMouse || mx != p.mouseX || my != p.mouseY
	p.mouseX, p.mouseY, p.hasMouse = mx, my, true

	switch {
	case touching:
		p.x, p.y = tx, ty
		p.touched = true
	case mouseMoved || !p.touched:
		p.x, p.y = mx, my
		p.touched = false
	}
}

// Position 返回当前瞄准位置
func (p *pointerTracker) Position() (int, int) {
	return p.x, p.y
}
