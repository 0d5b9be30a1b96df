package draw

import (
	"bytes"
	"strings"
	"testing"
)

// newTestCanvas maps 8x12 logical units to one terminal pixel.
func newTestCanvas() *Canvas {
	return NewScaledCanvas(10, 5, 80, 120)
}

func TestFillRectScales(t *testing.T) {
	c := newTestCanvas()
	c.FillRect(0, 0, 16, 24, 9)

	for _, tc := range []struct {
		x, y int
		want Color
	}{
		{0, 0, 9},
		{1, 1, 9},
		{2, 0, 0},
		{0, 2, 0},
	} {
		if got := c.At(tc.x, tc.y); got != tc.want {
			t.Errorf("At(%d,%d) = %d, want %d", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestFillRectClipsAndKeepsTinyShapes(t *testing.T) {
	c := newTestCanvas()
	c.FillRect(-100, -100, 1000, 1000, 3)
	if c.At(9, 9) != 3 || c.At(0, 0) != 3 {
		t.Fatalf("oversized rect not clipped to canvas")
	}

	c.Clear(0)
	c.FillRect(40, 60, 2, 2, 7)
	if c.At(5, 5) != 7 {
		t.Fatalf("sub-pixel rect vanished")
	}
}

func TestFillCircleCoversCenter(t *testing.T) {
	c := newTestCanvas()
	c.FillCircle(40, 60, 16, 5)
	if c.At(5, 5) != 5 || c.At(4, 4) != 5 {
		t.Fatalf("circle center not filled")
	}
	if c.At(0, 0) != 0 || c.At(9, 9) != 0 {
		t.Fatalf("circle leaked to corners")
	}
}

func TestDrawPolygonFilled(t *testing.T) {
	c := newTestCanvas()
	c.DrawPolygon([]Point{{8, 12}, {72, 12}, {72, 108}, {8, 108}}, 4, true)
	if c.At(5, 5) != 4 {
		t.Fatalf("polygon interior not filled")
	}
	if c.At(0, 0) != 0 {
		t.Fatalf("polygon filled outside its bounds")
	}
}

func TestRenderSkipsUnchangedCells(t *testing.T) {
	c := newTestCanvas()
	var buf bytes.Buffer

	c.Render(&buf)
	if got := strings.Count(buf.String(), string(BlockUpperHalf)); got != 50 {
		t.Fatalf("first render drew %d cells, want 50", got)
	}

	buf.Reset()
	c.Render(&buf)
	if buf.Len() != 0 {
		t.Fatalf("unchanged frame wrote %q", buf.String())
	}

	c.FillRect(0, 0, 8, 12, 1)
	buf.Reset()
	c.Render(&buf)
	out := buf.String()
	if got := strings.Count(out, string(BlockUpperHalf)); got != 1 {
		t.Fatalf("one changed pixel drew %d cells", got)
	}
	if !strings.Contains(out, "\033[38;5;1m") || !strings.HasSuffix(out, Reset) {
		t.Fatalf("render output missing colour or reset: %q", out)
	}

	c.MarkTextDirty(2, 3, 3)
	buf.Reset()
	c.Render(&buf)
	if got := strings.Count(buf.String(), string(BlockUpperHalf)); got != 3 {
		t.Fatalf("dirty text cells redrew %d cells, want 3", got)
	}

	c.ForceRedraw()
	buf.Reset()
	c.Render(&buf)
	if got := strings.Count(buf.String(), string(BlockUpperHalf)); got != 50 {
		t.Fatalf("forced redraw drew %d cells, want 50", got)
	}
}

func TestTerminalToLogical(t *testing.T) {
	c := newTestCanvas()
	c.SetOffset(2, 0)
	if got := c.TerminalToLogical(3); got != 4 {
		t.Fatalf("TerminalToLogical(3) = %f, want 4", got)
	}
	col, row := c.LogicalToTerminal(12, 30)
	if col != 3 || row != 2 {
		t.Fatalf("LogicalToTerminal = (%d,%d), want (3,2)", col, row)
	}
}

func TestChunkWriterOffsets(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 3, 1)
	cw.WriteAt(2, 2, "hi")
	cw.WriteStyled(1, 1, Bold, "x")
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	want := "\033[3;5Hhi\033[2;4H" + Bold + "x" + Reset
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
	if cw.Len() != 0 {
		t.Fatalf("buffer not reset after flush")
	}
}
