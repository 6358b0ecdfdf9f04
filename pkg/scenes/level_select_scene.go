package scenes

import (
	"image/color"
	"log"

	"github.com/gonewx/whack/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
)

// 关卡列表布局
const (
	menuTitleSize    = 40.0
	menuTitleY       = 48.0
	menuButtonWidth  = 300.0
	menuButtonHeight = 36.0
	menuButtonGap    = 10.0
	menuButtonTop    = 110.0
	menuButtonText   = 20.0
	menuFooterSize   = 13.0
)

var menuBackground = color.RGBA{R: 0x18, G: 0x10, B: 0x10, A: 255}

// LevelSelectScene 关卡选择场景
// 每个关卡一个按钮，点击后加载该关卡；进入时播放菜单音乐
type LevelSelectScene struct {
	ctx      *Context
	text     textDrawer
	buttons  []*button
	levelIDs []string
}

// NewLevelSelectScene 创建关卡选择场景
// 按钮按目录的显示顺序排列，文字为关卡名称（没有名称时使用ID）
func NewLevelSelectScene(ctx *Context) *LevelSelectScene {
	s := &LevelSelectScene{
		ctx:  ctx,
		text: textDrawer{rm: ctx.Resources},
	}

	x := (config.CanvasWidth - menuButtonWidth) / 2
	for i, id := range ctx.Catalog.LevelIDs() {
		label := id
		if level, err := ctx.Catalog.Level(id); err == nil && level.Name != "" {
			label = level.Name
		}
		s.levelIDs = append(s.levelIDs, id)
		s.buttons = append(s.buttons, &button{
			label: label,
			x:     x,
			y:     menuButtonTop + float64(i)*(menuButtonHeight+menuButtonGap),
			w:     menuButtonWidth,
			h:     menuButtonHeight,
		})
	}
	return s
}

// OnEnter 播放菜单音乐
func (s *LevelSelectScene) OnEnter() {
	if s.ctx.Audio != nil {
		s.ctx.Audio.PlayMusic(config.MusicMenu, config.MusicMenuVolume)
	}
}

// Update 处理悬停、点击和设置快捷键
func (s *LevelSelectScene) Update(deltaTime float64) {
	in := s.ctx.Input
	handleSettingsKeys(s.ctx)

	px, py := in.Pointer()
	pressed, entered := updateButtons(s.buttons, float64(px), float64(py), in.JustClicked())
	if entered {
		playUISound(s.ctx, config.SoundButtonHover, config.ButtonSoundVolume, 1)
	}
	if s.ctx.Audio != nil {
		s.ctx.Audio.Update()
	}
	in.SetHover(anyHovered(s.buttons))

	if pressed < 0 {
		return
	}
	id := s.levelIDs[pressed]
	playUISound(s.ctx, config.SoundLevelSelect, 1, 0.7)
	log.Printf("[LevelSelectScene] Selected level %s", id)
	s.ctx.Scenes.LoadLevel(id)
}

// Draw 绘制标题、关卡按钮和设置提示
func (s *LevelSelectScene) Draw(screen *ebiten.Image) {
	screen.Fill(menuBackground)
	s.text.drawStroked(screen, "pick ur poison", config.CanvasWidth/2, menuTitleY, 0.5, 0.5, menuTitleSize, hudStroke)
	for _, b := range s.buttons {
		b.draw(screen, s.text, menuButtonText)
	}
	s.text.drawStroked(screen, settingsSummary(s.ctx), config.CanvasWidth/2, config.CanvasHeight-8, 0.5, 1, menuFooterSize, 3)
}
