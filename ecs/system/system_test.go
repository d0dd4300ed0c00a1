package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/billiards/ecs"
	"github.com/milk9111/billiards/ecs/component"
	"github.com/milk9111/billiards/ecs/entity"
	"github.com/milk9111/billiards/prefabs"
)

type scriptedPointer struct {
	queue []component.Input
	last  component.Input
}

func (p *scriptedPointer) push(samples ...component.Input) {
	p.queue = append(p.queue, samples...)
}

func (p *scriptedPointer) Poll() component.Input {
	if len(p.queue) == 0 {
		held := p.last
		held.Pressed, held.Released, held.Lost = false, false, false
		return held
	}
	next := p.queue[0]
	p.queue = p.queue[1:]
	p.last = next
	return next
}

type testGame struct {
	world   *ecs.World
	spec    *prefabs.TableSpec
	table   component.Table
	pointer *scriptedPointer
	physics *PhysicsSystem
	pockets *PocketSystem
	shots   *ShotSystem
	sched   *ecs.Scheduler
}

func newTestGame(t *testing.T) *testGame {
	t.Helper()

	spec, err := prefabs.LoadTableSpec()
	if err != nil {
		t.Fatalf("load table spec: %v", err)
	}

	w := ecs.NewWorld()
	table, err := entity.BuildGame(w, spec, 800)
	if err != nil {
		t.Fatalf("build game: %v", err)
	}

	g := &testGame{world: w, spec: spec, table: table, pointer: &scriptedPointer{}}
	g.physics = NewPhysicsSystem(spec.Physics, nil)
	g.pockets = NewPocketSystem(g.physics, nil)
	g.shots = NewShotSystem(ShotParamsFromSpec(spec.Shot), nil)
	g.sched = ecs.NewScheduler(
		NewInputSystem(g.pointer),
		g.physics,
		g.pockets,
		g.shots,
		NewAimSystem(spec.Aim.Width),
	)
	g.tick()
	return g
}

func (g *testGame) tick() {
	g.sched.Update(g.world)
}

func (g *testGame) body(t *testing.T, e ecs.Entity) *cp.Body {
	t.Helper()
	pb, ok := ecs.Get(g.world, e, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Body == nil {
		t.Fatalf("entity %v has no body", e)
	}
	return pb.Body
}

func (g *testGame) cue(t *testing.T) ecs.Entity {
	t.Helper()
	cue, ok := CueBall(g.world)
	if !ok {
		t.Fatalf("cue ball missing")
	}
	return cue
}

func (g *testGame) controller() *component.ShotController {
	e, _ := ecs.First(g.world, component.ShotControllerComponent.Kind())
	ctrl, _ := ecs.Get(g.world, e, component.ShotControllerComponent.Kind())
	return ctrl
}

func (g *testGame) objectBalls() []ecs.Entity {
	var out []ecs.Entity
	for _, e := range Balls(g.world) {
		ball, _ := ecs.Get(g.world, e, component.BallComponent.Kind())
		if ball.Role == component.BallRoleObject {
			out = append(out, e)
		}
	}
	return out
}

func (g *testGame) teleport(t *testing.T, e ecs.Entity, x, y float64) {
	t.Helper()
	b := g.body(t, e)
	b.SetPosition(cp.Vector{X: x, Y: y})
	b.SetVelocity(0, 0)
}

func press(x, y float64) component.Input {
	return component.Input{X: x, Y: y, Down: true, Pressed: true}
}

func move(x, y float64) component.Input {
	return component.Input{X: x, Y: y, Down: true}
}

func release(x, y float64) component.Input {
	return component.Input{X: x, Y: y, Released: true}
}

func TestStartupBallSet(t *testing.T) {
	g := newTestGame(t)

	balls := Balls(g.world)
	if len(balls) != 16 {
		t.Fatalf("expected 16 balls, got %d", len(balls))
	}
	for i := 1; i < len(balls); i++ {
		if balls[i-1] >= balls[i] {
			t.Fatalf("balls not ordered by id: %v", balls)
		}
	}

	cues := 0
	for _, e := range balls {
		ball, _ := ecs.Get(g.world, e, component.BallComponent.Kind())
		if ball.Role == component.BallRoleCue {
			cues++
		}
		if !g.physics.Tracks(e) {
			t.Fatalf("ball %v has no simulated body", e)
		}
	}
	if cues != 1 {
		t.Fatalf("expected one cue ball, got %d", cues)
	}
}

func TestBallsAtRest(t *testing.T) {
	g := newTestGame(t)
	if !BallsAtRest(g.world, 0.05) {
		t.Fatalf("expected rack at rest after setup")
	}

	ball := g.objectBalls()[3]
	cases := []struct {
		name  string
		speed float64
		rest  bool
	}{
		{"still", 0, true},
		{"below threshold", 0.04, true},
		{"at threshold", 0.05, false},
		{"rolling", 3, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g.body(t, ball).SetVelocity(0, tc.speed)
			if got := BallsAtRest(g.world, 0.05); got != tc.rest {
				t.Fatalf("expected rest=%v at speed %v, got %v", tc.rest, tc.speed, got)
			}
		})
	}
}

func TestComputeShot(t *testing.T) {
	params := ShotParams{MinDrag: 10, ForceDivisor: 200, MaxForce: 0.05}
	gentle := ShotParams{MinDrag: 10, ForceDivisor: 2000, MaxForce: 0.05}

	cases := []struct {
		name     string
		params   ShotParams
		release  cp.Vector
		ok       bool
		wantMag  float64
		wantDirX float64
		wantDirY float64
	}{
		{"no drag", params, cp.Vector{X: 100, Y: 100}, false, 0, 0, 0},
		{"short drag", params, cp.Vector{X: 95, Y: 100}, false, 0, 0, 0},
		{"exactly min drag", params, cp.Vector{X: 90, Y: 100}, false, 0, 0, 0},
		{"just past min drag", params, cp.Vector{X: 89, Y: 100}, true, 0.05, 1, 0},
		{"capped", params, cp.Vector{X: 100, Y: 300}, true, 0.05, 0, -1},
		{"scaled", gentle, cp.Vector{X: 70, Y: 60}, true, 50.0 / 2000, 0.6, 0.8},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			force, ok := ComputeShot(100, 100, tc.release.X, tc.release.Y, tc.params)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if !ok {
				if force != (cp.Vector{}) {
					t.Fatalf("expected zero force, got %v", force)
				}
				return
			}
			if mag := force.Length(); math.Abs(mag-tc.wantMag) > 1e-12 {
				t.Fatalf("expected magnitude %v, got %v", tc.wantMag, mag)
			}
			dir := force.Mult(1 / force.Length())
			if math.Abs(dir.X-tc.wantDirX) > 1e-9 || math.Abs(dir.Y-tc.wantDirY) > 1e-9 {
				t.Fatalf("expected direction (%v,%v), got %v", tc.wantDirX, tc.wantDirY, dir)
			}
		})
	}
}

func TestDragLeftPushesCueRight(t *testing.T) {
	g := newTestGame(t)
	cue := g.cue(t)
	start := g.body(t, cue).Position()

	g.pointer.push(press(start.X, start.Y))
	g.tick()
	if g.controller().State != component.ShotAiming {
		t.Fatalf("expected aiming after press, got %v", g.controller().State)
	}

	g.pointer.push(move(start.X-40, start.Y))
	g.tick()

	guide, _ := ecs.First(g.world, component.AimGuideTagComponent.Kind())
	line, _ := ecs.Get(g.world, guide, component.LineRenderComponent.Kind())
	if line.Width != g.spec.Aim.Width {
		t.Fatalf("expected visible aim guide, got width %v", line.Width)
	}
	if math.Abs(line.StartX-start.X) > 1e-9 || math.Abs(line.EndX-(start.X+40)) > 1e-9 || math.Abs(line.EndY-start.Y) > 1e-9 {
		t.Fatalf("unexpected aim guide %+v", line)
	}

	g.pointer.push(release(start.X-80, start.Y))
	g.tick()

	ctrl := g.controller()
	if ctrl.State != component.ShotIdle {
		t.Fatalf("expected idle after release, got %v", ctrl.State)
	}
	if ctrl.Shots != 1 {
		t.Fatalf("expected one shot, got %d", ctrl.Shots)
	}
	if math.Abs(ctrl.LastForceX-0.05) > 1e-12 || ctrl.LastForceY != 0 {
		t.Fatalf("expected force (0.05, 0), got (%v, %v)", ctrl.LastForceX, ctrl.LastForceY)
	}

	vel := g.body(t, cue).Velocity()
	if vel.X <= 0 || math.Abs(vel.Y) > 1e-9 {
		t.Fatalf("expected cue to move right, got velocity %v", vel)
	}
	if line.Width != 0 {
		t.Fatalf("expected aim guide hidden after release, got width %v", line.Width)
	}
}

func TestShortDragIsDiscarded(t *testing.T) {
	g := newTestGame(t)
	cue := g.cue(t)
	start := g.body(t, cue).Position()

	g.pointer.push(press(start.X, start.Y), release(start.X-6, start.Y-8))
	g.tick()
	g.tick()

	ctrl := g.controller()
	if ctrl.State != component.ShotIdle || ctrl.Shots != 0 {
		t.Fatalf("expected idle with no shots, got %v / %d", ctrl.State, ctrl.Shots)
	}
	if v := g.body(t, cue).Velocity(); v != (cp.Vector{}) {
		t.Fatalf("expected cue at rest, got %v", v)
	}
}

func TestPressIgnoredWhileBallsMove(t *testing.T) {
	g := newTestGame(t)
	moving := g.objectBalls()[0]
	g.body(t, moving).SetVelocity(2, 0)

	g.pointer.push(press(100, 100))
	g.tick()

	if state := g.controller().State; state != component.ShotIdle {
		t.Fatalf("expected press to be ignored, got %v", state)
	}

	g.pointer.push(release(300, 100))
	g.tick()
	if g.controller().Shots != 0 {
		t.Fatalf("expected no shot")
	}
}

func TestPressWhileAimingKeepsOrigin(t *testing.T) {
	g := newTestGame(t)

	g.pointer.push(press(100, 100), press(250, 250))
	g.tick()
	g.tick()

	ctrl := g.controller()
	if ctrl.State != component.ShotAiming {
		t.Fatalf("expected aiming, got %v", ctrl.State)
	}
	if ctrl.OriginX != 100 || ctrl.OriginY != 100 {
		t.Fatalf("expected origin to stay (100,100), got (%v,%v)", ctrl.OriginX, ctrl.OriginY)
	}
}

func TestLostPointerCancelsShot(t *testing.T) {
	g := newTestGame(t)
	cue := g.cue(t)

	g.pointer.push(
		press(100, 100),
		move(30, 100),
		component.Input{X: 30, Y: 100, Lost: true},
		release(30, 100),
	)
	for i := 0; i < 4; i++ {
		g.tick()
	}

	ctrl := g.controller()
	if ctrl.State != component.ShotIdle || ctrl.Shots != 0 {
		t.Fatalf("expected cancelled gesture, got %v / %d shots", ctrl.State, ctrl.Shots)
	}
	if v := g.body(t, cue).Velocity(); v != (cp.Vector{}) {
		t.Fatalf("expected cue at rest, got %v", v)
	}
}

func TestCuePocketedRespawns(t *testing.T) {
	g := newTestGame(t)
	cue := g.cue(t)
	pockets := entity.PocketPositions(g.spec, g.table)

	g.teleport(t, cue, pockets[0][0], pockets[0][1])
	g.body(t, cue).SetVelocity(-1, -1)
	g.tick()

	if !ecs.IsAlive(g.world, cue) {
		t.Fatalf("cue ball was destroyed")
	}
	b := g.body(t, cue)
	if pos := b.Position(); pos.X != g.table.Width/4 || pos.Y != g.table.Height/2 {
		t.Fatalf("expected cue at spawn, got %v", pos)
	}
	if v := b.Velocity(); v != (cp.Vector{}) {
		t.Fatalf("expected zero velocity, got %v", v)
	}
	if n := len(Balls(g.world)); n != 16 {
		t.Fatalf("expected 16 balls, got %d", n)
	}
	if ecs.Has(g.world, cue, component.PocketedRequestComponent.Kind()) {
		t.Fatalf("pocketed request left behind")
	}
}

func TestObjectBallPocketedIsRemoved(t *testing.T) {
	g := newTestGame(t)
	pockets := entity.PocketPositions(g.spec, g.table)
	objects := g.objectBalls()
	target := objects[0]

	before := map[ecs.Entity]cp.Vector{}
	for _, e := range objects[1:] {
		before[e] = g.body(t, e).Position()
	}

	g.teleport(t, target, pockets[5][0], pockets[5][1])
	g.tick()

	if ecs.IsAlive(g.world, target) {
		t.Fatalf("pocketed ball still alive")
	}
	if g.physics.Tracks(target) {
		t.Fatalf("pocketed ball still in the space")
	}
	if n := len(Balls(g.world)); n != 15 {
		t.Fatalf("expected 15 balls, got %d", n)
	}
	for e, pos := range before {
		if !ecs.IsAlive(g.world, e) || !g.physics.Tracks(e) {
			t.Fatalf("ball %v was affected", e)
		}
		if got := g.body(t, e).Position(); got.Sub(pos).Length() > 1e-9 {
			t.Fatalf("ball %v moved from %v to %v", e, pos, got)
		}
	}
	if g.pockets.Pocketed() != 1 {
		t.Fatalf("expected one pocketed ball, got %d", g.pockets.Pocketed())
	}
}

func TestPocketAllObjectBalls(t *testing.T) {
	g := newTestGame(t)
	pockets := entity.PocketPositions(g.spec, g.table)
	corners := []int{0, 2, 3, 5}

	prev := len(Balls(g.world))
	for i := 0; i < 15; i++ {
		objects := g.objectBalls()
		p := pockets[corners[i%len(corners)]]
		g.teleport(t, objects[0], p[0], p[1])
		g.tick()

		n := len(Balls(g.world))
		if n != prev-1 {
			t.Fatalf("step %d: expected %d balls, got %d", i, prev-1, n)
		}
		if _, ok := CueBall(g.world); !ok {
			t.Fatalf("step %d: cue ball missing", i)
		}
		prev = n
	}

	if prev != 1 {
		t.Fatalf("expected only the cue ball left, got %d", prev)
	}
}

func TestRestingRackProducesNoPockets(t *testing.T) {
	g := newTestGame(t)
	for i := 0; i < 30; i++ {
		g.tick()
	}
	if n := ecs.Count(g.world, component.PocketedRequestComponent.Kind()); n != 0 {
		t.Fatalf("expected no pocket requests, got %d", n)
	}
	if n := len(Balls(g.world)); n != 16 {
		t.Fatalf("expected 16 balls, got %d", n)
	}
}

type releaseRecorder struct {
	released []ecs.Entity
}

func (r *releaseRecorder) Release(e ecs.Entity) {
	r.released = append(r.released, e)
}

func TestPocketSystemResolvesOnce(t *testing.T) {
	w := ecs.NewWorld()
	ball := ecs.CreateEntity(w)
	if err := ecs.Add(w, ball, component.BallComponent.Kind(), &component.Ball{Number: 4}); err != nil {
		t.Fatalf("add ball: %v", err)
	}
	stray := ecs.CreateEntity(w)

	for _, pocket := range []int{1, 4} {
		if err := ecs.Add(w, ball, component.PocketedRequestComponent.Kind(), &component.PocketedRequest{Pocket: pocket}); err != nil {
			t.Fatalf("add request: %v", err)
		}
	}
	if err := ecs.Add(w, stray, component.PocketedRequestComponent.Kind(), &component.PocketedRequest{}); err != nil {
		t.Fatalf("add stray request: %v", err)
	}

	rec := &releaseRecorder{}
	sys := NewPocketSystem(rec, nil)
	sys.Update(w)

	if len(rec.released) != 1 || rec.released[0] != ball {
		t.Fatalf("expected one release of %v, got %v", ball, rec.released)
	}
	if ecs.IsAlive(w, ball) {
		t.Fatalf("expected ball destroyed")
	}
	if !ecs.IsAlive(w, stray) || ecs.Has(w, stray, component.PocketedRequestComponent.Kind()) {
		t.Fatalf("expected stray request cleared without destroying the entity")
	}
	if sys.Pocketed() != 1 {
		t.Fatalf("expected 1 pocketed, got %d", sys.Pocketed())
	}
}

func TestInputSystemCopiesSample(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{Pressed: true}); err != nil {
		t.Fatalf("add input: %v", err)
	}

	NewInputSystem(PointerFunc(func() component.Input {
		return component.Input{X: 12, Y: 34, Down: true, Touch: true}
	})).Update(w)

	input, _ := ecs.Get(w, e, component.InputComponent.Kind())
	if input.X != 12 || input.Y != 34 || !input.Down || !input.Touch || input.Pressed {
		t.Fatalf("unexpected input %+v", input)
	}

	NewInputSystem(nil).Update(w)
	if *input != (component.Input{}) {
		t.Fatalf("expected zero input without a source, got %+v", input)
	}
}
