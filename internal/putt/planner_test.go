package putt

import (
	"testing"
)

func TestPlannerHolesOutOnFlatGreen(t *testing.T) {
	f := buildFlatField()
	sim := NewSimulator(f, GreenMedium)
	finder := NewPathFinder()

	shots := PlanShots(f.Start(), f.Target(), sim, finder, f, DefaultMaxShots)
	if len(shots) == 0 {
		t.Fatal("planner returned no attempts")
	}

	last := shots[len(shots)-1]
	if !last.Success {
		t.Fatalf("flat 2 m putt should hole out; %d attempts, last closest index %d", len(shots), last.ClosestIndex)
	}
	if last.Angle != 0 {
		t.Errorf("first flat-green attempt angle = %.2f, want 0", last.Angle)
	}

	final, _ := last.FinalPosition()
	if final.PlanarDistance(f.Target()) > HoleRadius {
		t.Errorf("holed shot rests %.4f m from the target, outside the hole radius", final.PlanarDistance(f.Target()))
	}
}

func TestPlannerStopsOnFirstSuccess(t *testing.T) {
	f := buildFlatField()
	sim := NewSimulator(f, GreenMedium)
	finder := NewPathFinder()
	p := NewPlanner(sim, finder, f, DefaultMaxShots)

	shots := p.PlanShots(f.Start(), f.Target())
	for i, s := range shots[:len(shots)-1] {
		if s.Success {
			t.Errorf("attempt %d succeeded but planning continued", i)
		}
	}
	best, ok := p.Best()
	if !ok || !best.Success {
		t.Error("best attempt should be the successful one")
	}
}

func TestPlannerBoundsOnUnreachableTarget(t *testing.T) {
	// 10 m putt: even at clamped max speed the ball cannot cover it, so
	// both phases run dry.
	start := NewVec3(0, 0, 0)
	target := NewVec3(0, 0, -10)
	f := BuildField(start, target, FlatProvider{Height: 0}, 0.2, 1.0)
	sim := NewSimulator(f, GreenMedium)
	finder := NewPathFinder()
	p := NewPlanner(sim, finder, f, 10)

	shots := p.PlanShots(start, target)

	if len(shots) > 2*10 {
		t.Errorf("planner made %d attempts, cap is 2×maxShots = 20", len(shots))
	}
	if p.TotalBoosts() > MaxTotalPowerBoosts {
		t.Errorf("planner applied %d boosts, cap is %d", p.TotalBoosts(), MaxTotalPowerBoosts)
	}
	for i, s := range shots {
		if s.Success {
			t.Errorf("attempt %d reported success on an unreachable target", i)
		}
	}
	// No solution is still a result: the best attempt is the closest miss.
	if _, ok := p.Best(); !ok {
		t.Error("planner must return a best attempt even without a success")
	}
}

func TestInitialPowerScalesWithDistance(t *testing.T) {
	start := NewVec3(0, 0, 0)
	near := NewVec3(0, 0, -1)
	far := NewVec3(0, 0, -3)
	f := buildFlatField()

	pNear := InitialPower(start, near, f, GreenMedium)
	pFar := InitialPower(start, far, f, GreenMedium)
	if pFar <= pNear {
		t.Errorf("longer putt should start with more power: near=%.3f far=%.3f", pNear, pFar)
	}
	if got := InitialPower(start, start, f, GreenMedium); got != 0 {
		t.Errorf("zero-length putt power = %.3f, want 0", got)
	}

	// A faster green keeps speed longer, so it needs less initial power.
	if InitialPower(start, far, f, GreenVeryFast) >= pFar {
		t.Error("very fast green should need less power than medium")
	}
}

func TestFindBestShotSingleAttempt(t *testing.T) {
	f := buildFlatField()
	sim := NewSimulator(f, GreenMedium)
	finder := NewPathFinder()

	power := InitialPower(f.Start(), f.Target(), f, GreenMedium)
	shot := FindBestShot(f.Start(), f.Target(), sim, finder, f, power)

	if shot.Angle != 0 {
		t.Errorf("first single attempt angle = %.2f, want 0", shot.Angle)
	}
	if !shot.Success {
		t.Error("flat-green single attempt at the derived power should hole out")
	}
}

type countingRenderer struct {
	draws int
	paths [][]Vec3
}

func (c *countingRenderer) Draw(path []Vec3, target Vec3) []RenderHandle {
	c.draws++
	c.paths = append(c.paths, path)
	return []RenderHandle{"h1"}
}

func (c *countingRenderer) Clear(handles []RenderHandle) {}

func TestPlannerRendersOnlyBestPath(t *testing.T) {
	f := buildFlatField()
	sim := NewSimulator(f, GreenMedium)
	p := NewPlanner(sim, NewPathFinder(), f, DefaultMaxShots)
	r := &countingRenderer{}
	p.Renderer = r

	p.PlanShots(f.Start(), f.Target())
	if r.draws != 1 {
		t.Errorf("renderer drew %d paths, want exactly the best one", r.draws)
	}
}
