package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ANSI control sequences.
const (
	Reset       = "\033[0m"
	Bold        = "\033[1m"
	Dim         = "\033[2m"
	clearScreen = "\033[H\033[2J"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"

	// Button-event tracking (1002) with SGR extended coordinates (1006).
	mouseOn  = "\033[?1002h\033[?1006h"
	mouseOff = "\033[?1006l\033[?1002l"
)

// ChunkWriter accumulates text for terminal output and writes it in chunks,
// which keeps SSH output smooth. Accumulate with MoveCursor, WriteString and
// WriteAt, then Flush. It implements io.Writer for Canvas.Render.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer
	numBuf [20]byte
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w. offsetCol and
// offsetRow are added to all MoveCursor coordinates.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		bufw:   bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the cursor offset after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// MoveCursor appends a cursor position sequence. col and row are 1-based
// canvas coordinates.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf.WriteString("\033[")
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.offRow), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.offCol), 10))
	cw.buf.WriteByte('H')
}

// Write implements io.Writer.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString appends s.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt writes s at a 1-based canvas position.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.buf.WriteString(s)
}

// WriteStyled writes s at a 1-based canvas position wrapped in style and a
// reset.
func (cw *ChunkWriter) WriteStyled(col, row int, style, s string) {
	cw.MoveCursor(col, row)
	cw.buf.WriteString(style)
	cw.buf.WriteString(s)
	cw.buf.WriteString(Reset)
}

// Len returns the number of buffered bytes.
func (cw *ChunkWriter) Len() int {
	return cw.buf.Len()
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush writes the buffer to the underlying writer in chunks and resets it.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// Fg returns the SGR sequence selecting foreground colour c.
func Fg(c Color) string {
	return "\033[38;5;" + strconv.Itoa(int(c)) + "m"
}

// Bg returns the SGR sequence selecting background colour c.
func Bg(c Color) string {
	return "\033[48;5;" + strconv.Itoa(int(c)) + "m"
}

// TermSizeFunc returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns the size of os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and moves the cursor to the top-left.
func ClearScreen(w io.Writer) {
	io.WriteString(w, clearScreen)
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	io.WriteString(w, hideCursor)
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	io.WriteString(w, showCursor)
}

// EnableMouse turns on press, drag and release reporting.
func EnableMouse(w io.Writer) {
	io.WriteString(w, mouseOn)
}

// DisableMouse turns mouse reporting off again.
func DisableMouse(w io.Writer) {
	io.WriteString(w, mouseOff)
}
