package main

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/billiards/config"
	"github.com/milk9111/billiards/ecs"
	"github.com/milk9111/billiards/ecs/component"
	"github.com/milk9111/billiards/ecs/entity"
	"github.com/milk9111/billiards/ecs/render"
	"github.com/milk9111/billiards/ecs/system"
	"github.com/milk9111/billiards/prefabs"
	"go.uber.org/zap"
)

var (
	backgroundColor = color.NRGBA{R: 0x1b, G: 0x1b, B: 0x1b, A: 0xff}
	defaultFelt     = color.NRGBA{R: 0x0a, G: 0x5c, B: 0x27, A: 0xff}
)

type Game struct {
	cfg *config.Config
	log *zap.Logger

	world *ecs.World
	table component.Table
	sched *ecs.Scheduler

	physics  *system.PhysicsSystem
	pockets  *system.PocketSystem
	shots    *system.ShotSystem
	aim      *system.AimSystem
	pointer  *pointer
	renderer *render.Renderer

	watcher *prefabs.Watcher
	specMod time.Time
	pauseUI *ebitenui.UI
	paused  bool
	quit    bool
}

func NewGame(cfg *config.Config, log *zap.Logger, spec *prefabs.TableSpec, width float64) (*Game, error) {
	w := ecs.NewWorld()
	table, err := entity.BuildGame(w, spec, width)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	margin := table.WallThickness
	g := &Game{
		cfg:      cfg,
		log:      log,
		world:    w,
		table:    table,
		physics:  system.NewPhysicsSystem(spec.Physics, log.Named("physics")),
		shots:    system.NewShotSystem(system.ShotParamsFromSpec(spec.Shot), log.Named("shot")),
		aim:      system.NewAimSystem(spec.Aim.Width),
		pointer:  newPointer(margin, margin),
		renderer: render.NewRenderer(spec.FeltColor.ColorOr(defaultFelt), margin, margin),
	}
	g.pockets = system.NewPocketSystem(g.physics, log.Named("pocket"))
	g.sched = ecs.NewScheduler(
		system.NewInputSystem(g.pointer),
		g.physics,
		g.pockets,
		g.shots,
		g.aim,
	)

	sw, sh := g.ScreenSize()
	g.pauseUI = NewPauseUI(g, sw, sh)

	if cfg.Dev.Watch {
		watcher, err := prefabs.NewWatcher(cfg.Dev.WatchDir)
		if err != nil {
			log.Warn("prefab watcher disabled", zap.String("dir", cfg.Dev.WatchDir), zap.Error(err))
		} else {
			g.watcher = watcher
			g.specMod, _ = prefabs.ModTime(prefabs.TableSpecFile)
		}
	}

	log.Info("table ready",
		zap.Float64("width", table.Width),
		zap.Float64("height", table.Height),
		zap.Float64("ball_radius", table.BallRadius),
		zap.Float64("pocket_radius", table.PocketRadius),
		zap.Int("balls", len(system.Balls(w))),
	)
	return g, nil
}

// ScreenSize is the table interior plus a wall-thickness margin on each side.
func (g *Game) ScreenSize() (int, int) {
	m := 2 * g.table.WallThickness
	return int(math.Ceil(g.table.Width + m)), int(math.Ceil(g.table.Height + m))
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	g.drainReloads()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.setPaused(!g.paused)
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.sched.Update(g.world)
	return nil
}

func (g *Game) setPaused(paused bool) {
	if paused && !g.paused {
		g.pointer.cancel()
	}
	g.paused = paused
}

func (g *Game) drainReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if name == prefabs.TableSpecFile {
				g.reloadTuning()
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.log.Warn("prefab watcher", zap.Error(err))
			}
		default:
			return
		}
	}
}

// reloadTuning applies shot and aim settings from a changed table prefab.
// Geometry and materials belong to bodies that already exist and are left
// alone.
func (g *Game) reloadTuning() {
	mod, ok := prefabs.ModTime(prefabs.TableSpecFile)
	if ok && !mod.After(g.specMod) {
		return
	}
	g.specMod = mod

	spec, err := prefabs.LoadTableSpec()
	if err != nil {
		g.log.Warn("reload table prefab", zap.Error(err))
		return
	}

	g.shots.SetParams(system.ShotParamsFromSpec(spec.Shot))
	g.aim.SetWidth(spec.Aim.Width)
	if guide, ok := ecs.First(g.world, component.AimGuideTagComponent.Kind()); ok {
		if line, ok := ecs.Get(g.world, guide, component.LineRenderComponent.Kind()); ok {
			line.Color = spec.Aim.Color.ColorOr(line.Color)
			line.AntiAlias = spec.Aim.AntiAlias
		}
	}
	g.log.Info("table prefab reloaded",
		zap.Float64("max_force", spec.Shot.MaxForce),
		zap.Float64("impulse_scale", spec.Shot.ImpulseScale),
	)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	g.renderer.Draw(g.world, screen)

	if g.cfg.Dev.PhysicsDebug {
		render.DrawPhysicsDebug(g.physics.Space(), screen, g.renderer.OffsetX, g.renderer.OffsetY)
	}
	if g.cfg.Dev.Overlay {
		g.drawOverlay(screen)
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) drawOverlay(screen *ebiten.Image) {
	state := component.ShotIdle
	var shots int
	var fx, fy float64
	if e, ok := ecs.First(g.world, component.ShotControllerComponent.Kind()); ok {
		if ctrl, ok := ecs.Get(g.world, e, component.ShotControllerComponent.Kind()); ok {
			state = ctrl.State
			shots = ctrl.Shots
			fx, fy = ctrl.LastForceX, ctrl.LastForceY
		}
	}

	text := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nShot: %s (%d)\nBalls: %d  Pocketed: %d\nLast force: (%.4f, %.4f)",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		state, shots,
		len(system.Balls(g.world)), g.pockets.Pocketed(),
		fx, fy,
	)
	ebitenutil.DebugPrint(screen, text)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	w, h := g.ScreenSize()
	return float64(w), float64(h)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
