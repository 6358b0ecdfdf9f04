package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gonewx/whack/pkg/app"
	"github.com/gonewx/whack/pkg/config"
	"github.com/gonewx/whack/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	level     = flag.String("level", "", "直接进入指定关卡（关卡ID）")
	verbose   = flag.Bool("verbose", false, "显示详细调试信息")
	timescale = flag.Float64("timescale", 0, "时间缩放系数（0 表示使用保存的设置）")
	assetRoot = flag.String("assets", ".", "包含 assets/ 目录的根目录")
	debug     = flag.Bool("debug", false, "显示目标碰撞盒")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)

	game, err := app.NewApp(app.Config{
		Verbose:   *verbose,
		Level:     *level,
		Timescale: *timescale,
		AssetRoot: *assetRoot,
		Debug:     *debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "whack: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(config.CanvasWidth*app.WindowScale, config.CanvasHeight*app.WindowScale)
	ebiten.SetWindowTitle("whack")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetCursorShape(ebiten.CursorShapeCrosshair)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
