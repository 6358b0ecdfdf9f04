package scenes

import (
	"image/color"
	"math"

	"github.com/gonewx/whack/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	textColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	strokeColor = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 255}

	buttonColor      = color.RGBA{R: 30, G: 30, B: 30, A: 220}
	buttonHoverColor = color.RGBA{R: 200, G: 40, B: 40, A: 230}
	hitboxColor      = color.RGBA{R: 128, G: 0, B: 0, A: 128}
)

// additiveBlend 叠加混合（枪口火光）
var additiveBlend = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorOne,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// multiplyBlend 正片叠底（受伤与结算遮罩）
// 源颜色为预乘 alpha：out = src·dst + dst·(1-a)，目标 alpha 保持不变
var multiplyBlend = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// whitePixel 用于绘制纯色矩形的 1x1 贴图
var whitePixel *ebiten.Image

func fillPixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}

// fillBlended 以指定颜色、不透明度和混合模式铺满 dst
func fillBlended(dst *ebiten.Image, clr color.Color, alpha float64, blend ebiten.Blend) {
	if alpha <= 0 {
		return
	}
	b := dst.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(b.Dx()), float64(b.Dy()))
	op.ColorScale.ScaleWithColor(clr)
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Blend = blend
	dst.DrawImage(fillPixel(), op)
}

// textDrawer 按锚点绘制带描边的文字
type textDrawer struct {
	rm *game.ResourceManager
}

// measure 返回文字在指定字号下的宽高（像素）
func (d textDrawer) measure(str string, size float64) (float64, float64) {
	face, scale := d.rm.Font(size)
	w, h := text.Measure(str, face, 0)
	return w * scale, h * scale
}

// drawStroked 在 (x, y) 处按锚点 (ax, ay) 绘制文字
// ax/ay 为 0 时 (x, y) 是左上角，为 1 时是右下角
// stroke 为描边宽度，0 表示不描边
func (d textDrawer) drawStroked(dst *ebiten.Image, str string, x, y, ax, ay, size, stroke float64) {
	if size <= 0 || str == "" {
		return
	}
	face, scale := d.rm.Font(size)
	w, _ := text.Measure(str, face, 0)
	left := x - w*scale*ax
	top := y - size*ay

	draw := func(dx, dy float64, clr color.Color) {
		op := &text.DrawOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(left+dx, top+dy)
		op.ColorScale.ScaleWithColor(clr)
		text.Draw(dst, str, face, op)
	}

	if stroke > 0 {
		r := stroke / 2
		for i := 0; i < 8; i++ {
			a := float64(i) * math.Pi / 4
			draw(math.Cos(a)*r, math.Sin(a)*r, strokeColor)
		}
	}
	draw(0, 0, textColor)
}

// button 矩形文字按钮
type button struct {
	label   string
	x, y    float64
	w, h    float64
	hovered bool
}

// contains 判断点是否在按钮内
func (b *button) contains(px, py float64) bool {
	return px >= b.x && px <= b.x+b.w && py >= b.y && py <= b.y+b.h
}

// draw 绘制按钮背景和居中的文字
func (b *button) draw(dst *ebiten.Image, td textDrawer, size float64) {
	clr := buttonColor
	if b.hovered {
		clr = buttonHoverColor
	}
	vector.DrawFilledRect(dst, float32(b.x), float32(b.y), float32(b.w), float32(b.h), clr, true)
	vector.StrokeRect(dst, float32(b.x), float32(b.y), float32(b.w), float32(b.h), 2, strokeColor, true)
	td.drawStroked(dst, b.label, b.x+b.w/2, b.y+b.h/2, 0.5, 0.5, size, 4)
}

// updateButtons 刷新悬停状态并返回被点击的按钮下标（没有点击时为 -1）
// enteredHover 表示本帧有按钮刚进入悬停状态
func updateButtons(buttons []*button, px, py float64, clicked bool) (pressed int, enteredHover bool) {
	pressed = -1
	for i, b := range buttons {
		was := b.hovered
		b.hovered = b.contains(px, py)
		if b.hovered && !was {
			enteredHover = true
		}
		if b.hovered && clicked && pressed < 0 {
			pressed = i
		}
	}
	return pressed, enteredHover
}

// anyHovered 是否有按钮处于悬停状态
func anyHovered(buttons []*button) bool {
	for _, b := range buttons {
		if b.hovered {
			return true
		}
	}
	return false
}
