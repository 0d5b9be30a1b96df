package physics

import "testing"

func TestCircleIntersectsBox(t *testing.T) {
	player := Box{X: 200, Y: 300, W: 52, H: 92}

	tests := []struct {
		name string
		c    Circle
		want bool
	}{
		{"centered", Circle{X: 200, Y: 300, R: 16}, true},
		// threshold is 16 + 0.4*52 = 36.8
		{"distance 25", Circle{X: 225, Y: 300, R: 16}, true},
		{"distance 36", Circle{X: 236, Y: 300, R: 16}, true},
		{"distance 37", Circle{X: 237, Y: 300, R: 16}, false},
		{"diagonal 40", Circle{X: 224, Y: 332, R: 16}, false},
		{"far", Circle{X: 0, Y: 0, R: 16}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CircleIntersectsBox(tt.c, player); got != tt.want {
				t.Fatalf("CircleIntersectsBox(%+v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestBoxIntersects(t *testing.T) {
	player := Box{X: 100, Y: 100, W: 52, H: 92}

	tests := []struct {
		name string
		b    Box
		want bool
	}{
		{"same center", Box{X: 100, Y: 100, W: 50, H: 45}, true},
		{"overlap right", Box{X: 150, Y: 100, W: 50, H: 45}, true},
		{"touching right edge", Box{X: 151, Y: 100, W: 50, H: 45}, false},
		{"above", Box{X: 100, Y: 20, W: 50, H: 45}, false},
		{"overlap top", Box{X: 100, Y: 40, W: 50, H: 45}, true},
		{"contained", Box{X: 100, Y: 100, W: 10, H: 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BoxIntersects(tt.b, player); got != tt.want {
				t.Fatalf("BoxIntersects(%+v) = %v, want %v", tt.b, got, tt.want)
			}
			if got := BoxIntersects(player, tt.b); got != tt.want {
				t.Fatalf("BoxIntersects is not symmetric for %+v", tt.b)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-5, 0, 10); got != 0 {
		t.Fatalf("Clamp below = %f, want 0", got)
	}
	if got := Clamp(15, 0, 10); got != 10 {
		t.Fatalf("Clamp above = %f, want 10", got)
	}
	if got := Clamp(7, 0, 10); got != 7 {
		t.Fatalf("Clamp inside = %f, want 7", got)
	}
}
