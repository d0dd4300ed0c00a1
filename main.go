package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/billiards/config"
	"github.com/milk9111/billiards/prefabs"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	debug := flag.Bool("debug", false, "enable the debug overlay")
	watch := flag.Bool("watch", false, "reload shot tuning when prefabs/table.yaml changes")
	viewportWidth := flag.Int("width", 0, "viewport width used to size the table (defaults to the monitor width)")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *debug {
		cfg.Dev.Overlay = true
	}
	if *watch {
		cfg.Dev.Watch = true
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	prefabs.Dir = cfg.Dev.WatchDir
	spec, err := prefabs.LoadTableSpec()
	if err != nil {
		logger.Fatal("load table", zap.Error(err))
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	viewport := *viewportWidth
	if viewport <= 0 {
		viewport, _ = ebiten.Monitor().Size()
	}

	game, err := NewGame(cfg, logger, spec, cfg.Window.TableWidth(viewport))
	if err != nil {
		logger.Fatal("build game", zap.Error(err))
	}
	defer game.Close()

	w, h := game.ScreenSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.Window.TPS)

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("run game", zap.Error(err))
	}
}
