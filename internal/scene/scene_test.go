package scene

import (
	"math"
	"testing"

	"github.com/tomz197/velocityridge/internal/game"
	"github.com/tomz197/velocityridge/internal/object"
)

func testView(distance float64) game.View {
	w := object.Configure(800, 600)
	return game.View{
		World:  w,
		Player: *object.NewPlayer(w),
		State:  game.State{Distance: distance},
	}
}

func countPaint(shapes []Shape, p Paint) int {
	n := 0
	for _, s := range shapes {
		if s.Paint == p {
			n++
		}
	}
	return n
}

func firstPaint(shapes []Shape, p Paint) Shape {
	for _, s := range shapes {
		if s.Paint == p {
			return s
		}
	}
	return Shape{}
}

func TestBuildRoad(t *testing.T) {
	var b Builder
	shapes := b.Build(testView(0))

	if shapes[0].Paint != PaintBackground || shapes[0].W != 800 || shapes[0].H != 600 {
		t.Fatalf("first shape should cover the viewport: %+v", shapes[0])
	}
	// 16 dashes cover 600 units per divider, two dividers.
	if got := countPaint(shapes, PaintLane); got != 32 {
		t.Fatalf("lane dashes = %d, want 32", got)
	}
	if got := countPaint(shapes, PaintStreak); got != StreakCount {
		t.Fatalf("streaks = %d, want %d", got, StreakCount)
	}
	last := shapes[len(shapes)-1]
	if last.Paint != PaintHighlight {
		t.Fatalf("car should be drawn last, got paint %d", last.Paint)
	}
}

func TestDashesScrollWithDistance(t *testing.T) {
	var b Builder
	y0 := firstPaint(b.Build(testView(0)), PaintLane).Y
	y1 := firstPaint(b.Build(testView(50)), PaintLane).Y
	if math.Abs((y1-y0)-50*DashScroll) > 1e-9 {
		t.Fatalf("dash moved %f, want %f", y1-y0, 50*DashScroll)
	}
}

func TestEntitiesAreDrawn(t *testing.T) {
	v := testView(0)
	v.Obstacles = []object.Entity{{Kind: object.KindObstacle, X: 300, Y: 100, Width: 60, Height: 54}}
	v.Coins = []object.Entity{{Kind: object.KindCoin, X: 400, Y: 200, Radius: 16}}
	v.Extenders = []object.Entity{{Kind: object.KindExtender, X: 500, Y: 300, Width: 34, Height: 34}}

	var b Builder
	shapes := b.Build(v)

	obs := firstPaint(shapes, PaintObstacle)
	if obs.X != 270 || obs.Y != 73 || obs.W != 60 || obs.H != 54 {
		t.Fatalf("obstacle rect = %+v", obs)
	}
	coin := firstPaint(shapes, PaintCoin)
	if coin.Kind != ShapeCircle || coin.R != 16 || coin.X != 400 {
		t.Fatalf("coin = %+v", coin)
	}
	if got := countPaint(shapes, PaintExtenderMark); got != 2 {
		t.Fatalf("extender cross parts = %d, want 2", got)
	}
}

func TestCarLeans(t *testing.T) {
	var b Builder
	v := testView(0)
	upright := firstPaint(b.Build(v), PaintCarFront).Points[0]
	p := v.Player
	if upright.X != p.X-p.Width/3 || upright.Y != p.Y-p.Height/2 {
		t.Fatalf("upright car corner = %+v", upright)
	}

	v.Player.TargetX = v.Player.X - 20
	leaned := firstPaint(b.Build(v), PaintCarFront)
	if leaned.Points[0] == upright {
		t.Fatalf("leaning car not rotated")
	}
	if len(leaned.Points) != 4 {
		t.Fatalf("body has %d points", len(leaned.Points))
	}
}
