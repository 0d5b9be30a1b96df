package draw

import (
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Point represents a 2D coordinate in logical units.
type Point struct {
	X, Y float64
}

// Color is an xterm-256 palette index.
type Color uint8

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Canvas is a colour drawing buffer with 2x vertical resolution: every
// terminal cell shows two sub-pixels through an upper half-block whose
// foreground is the top pixel and background the bottom one.
// Logical coordinates are scaled to terminal pixels on every draw call.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x]

	// Last rendered cell (top<<8 | bottom), used to skip unchanged cells
	prev      []uint16
	prevValid []bool

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets for centering the render area when the
	// terminal is larger than the max render resolution.
	offsetCol int
	offsetRow int

	renderBuf       strings.Builder
	numBuf          [20]byte
	scaledBuf       []Point
	intersectionBuf []float64
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to
// terminal pixels.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the terminal dimensions. Logical size is unchanged.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Color, c.subPixelHeight*termWidth)
		c.prev = make([]uint16, termWidth*termHeight)
		c.prevValid = make([]bool, termWidth*termHeight)
	}
	c.scaleX = float64(c.termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetLogicalSize changes the logical coordinate space.
func (c *Canvas) SetLogicalSize(width, height float64) {
	c.logicalWidth = width
	c.logicalHeight = height
	c.Resize(c.termWidth, c.termHeight)
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear fills every pixel with bg.
func (c *Canvas) Clear(bg Color) {
	for i := range c.pixels {
		c.pixels[i] = bg
	}
}

// ForceRedraw makes the next Render emit every cell.
func (c *Canvas) ForceRedraw() {
	clear(c.prevValid)
}

// MarkTextDirty invalidates n cells starting at the 1-based (col, row) so the
// next Render paints over text written there.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for x := max(col-1, 0); x < min(col-1+n, c.termWidth); x++ {
		c.prevValid[r*c.termWidth+x] = false
	}
}

// At returns the pixel at terminal pixel coordinates, or 0 when out of range.
func (c *Canvas) At(x, y int) Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return 0
	}
	return c.pixels[y*c.termWidth+x]
}

func (c *Canvas) setPixel(x, y int, col Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// FillRect fills the logical rectangle with top-left (x, y).
func (c *Canvas) FillRect(x, y, w, h float64, col Color) {
	if w <= 0 || h <= 0 {
		return
	}
	x0 := int(math.Round(x * c.scaleX))
	x1 := int(math.Round((x + w) * c.scaleX))
	y0 := int(math.Round(y * c.scaleY))
	y1 := int(math.Round((y + h) * c.scaleY))
	// Anything with area stays visible, however small.
	if x1 == x0 {
		x1++
	}
	if y1 == y0 {
		y1++
	}
	x0, x1 = max(x0, 0), min(x1, c.termWidth)
	y0, y1 = max(y0, 0), min(y1, c.subPixelHeight)
	for py := y0; py < y1; py++ {
		row := c.pixels[py*c.termWidth : (py+1)*c.termWidth]
		for px := x0; px < x1; px++ {
			row[px] = col
		}
	}
}

// FillCircle fills a circle given in logical units. The radius is scaled on
// each axis separately, so circles stay round on screen only when the
// logical aspect matches the terminal's.
func (c *Canvas) FillCircle(cx, cy, r float64, col Color) {
	if r <= 0 {
		return
	}
	pcx, pcy := cx*c.scaleX, cy*c.scaleY
	rx, ry := max(r*c.scaleX, 0.5), max(r*c.scaleY, 0.5)
	y0 := int(math.Floor(pcy - ry))
	y1 := int(math.Ceil(pcy + ry))
	x0 := int(math.Floor(pcx - rx))
	x1 := int(math.Ceil(pcx + rx))
	for py := y0; py <= y1; py++ {
		dy := (float64(py) + 0.5 - pcy) / ry
		for px := x0; px <= x1; px++ {
			dx := (float64(px) + 0.5 - pcx) / rx
			if dx*dx+dy*dy <= 1 {
				c.setPixel(px, py, col)
			}
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point, col Color) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		c.setPixel(x1, y1, col)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a polygon outline, filling the interior when filled is
// true.
func (c *Canvas) DrawPolygon(points []Point, col Color, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fillPolygon(points, col)
	}
	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], col)
	}
}

// fillPolygon fills a polygon with the scanline algorithm in pixel space.
func (c *Canvas) fillPolygon(points []Point, col Color) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.subPixelHeight-1)

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5
		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections
		slices.Sort(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i]))
			xEnd := int(math.Floor(intersections[i+1]))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y, col)
			}
		}
	}
}

// maxChunkSize is the maximum bytes written at once; roughly one MTU keeps
// SSH output smooth.
const maxChunkSize = 1400

// Render writes every changed cell to w as a coloured upper half-block and
// resets the terminal colours afterwards.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 4)

	curFg, curBg := -1, -1
	cursorCol, cursorRow := -1, -1

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth
		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]
			cell := uint16(top)<<8 | uint16(bottom)

			idx := row*c.termWidth + col
			if c.prevValid[idx] && c.prev[idx] == cell {
				continue
			}
			c.prev[idx] = cell
			c.prevValid[idx] = true

			if cursorRow != row || cursorCol != col {
				c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			}
			if int(top) != curFg {
				c.sgr("38", top)
				curFg = int(top)
			}
			if int(bottom) != curBg {
				c.sgr("48", bottom)
				curBg = int(bottom)
			}
			c.renderBuf.WriteRune(BlockUpperHalf)
			cursorCol, cursorRow = col+1, row
		}
	}
	if c.renderBuf.Len() == 0 {
		return
	}
	c.renderBuf.WriteString(Reset)

	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// sgr appends "ESC[<layer>;5;<col>m".
func (c *Canvas) sgr(layer string, col Color) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.WriteString(layer)
	c.renderBuf.WriteString(";5;")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('m')
}

// RenderBorder draws a box around the canvas area when the terminal exceeds
// the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	bar := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	writeAt := func(col, row int, s string) {
		buf.WriteString("\033[")
		buf.WriteString(strconv.Itoa(row))
		buf.WriteByte(';')
		buf.WriteString(strconv.Itoa(col))
		buf.WriteByte('H')
		buf.WriteString(s)
	}

	if hasV {
		if hasH {
			writeAt(left, top, "┌"+bar+"┐")
			writeAt(left, bottom, "└"+bar+"┘")
		} else {
			writeAt(c.offsetCol+1, top, bar)
			writeAt(c.offsetCol+1, bottom, bar)
		}
	}
	if hasH {
		startRow, endRow := top+1, bottom
		if !hasV {
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			writeAt(left, row, "│")
			writeAt(right, row, "│")
		}
	}
	io.WriteString(w, buf.String())
}

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height.
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the terminal column count in use.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the terminal row count in use.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to a 1-based canvas
// position (col, row), offset not included.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

// TerminalToLogical converts a 1-based screen column to a logical x at the
// cell's center. The canvas offset is removed.
func (c *Canvas) TerminalToLogical(col int) float64 {
	return (float64(col-1-c.offsetCol) + 0.5) / c.scaleX
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
