// Package input turns raw terminal bytes and window events into steering
// intents and pointer gestures.
package input

import (
	"bufio"
	"strconv"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals never report key releases, so auto-repeat keeps a key alive.
const keyHoldDuration = 60 * time.Millisecond

// MouseAction is the kind of a terminal mouse report.
type MouseAction int

const (
	MouseDown MouseAction = iota
	MouseMove
	MouseUp
	MouseWheel
)

// MouseEvent is a decoded SGR mouse report. Col and Row are 1-based.
type MouseEvent struct {
	Action MouseAction
	Col    int
	Row    int
}

// Input represents the current frame's terminal input state.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Start   bool // Space or Enter
	Mouse   []MouseEvent
	Pressed []byte
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit  time.Time
	left  time.Time
	right time.Time
	start time.Time
}

// Stream delivers input bytes via a channel and tracks key state for held keys.
type Stream struct {
	ch      chan byte
	state   keyState
	pending []byte // Unfinished escape sequence carried to the next read
}

// maxPending bounds a carried escape sequence; longer ones are garbage.
const maxPending = 32

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 256),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Reset forgets every held key, so a key used to start a session does not
// leak into the first frames of play.
func Reset(s *Stream) {
	s.state = keyState{}
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and SGR mouse reports.
// closed is true once the underlying reader has failed.
func ReadInput(s *Stream) (in Input, closed bool) {
	now := time.Now()
	buf := s.pending
	s.pending = nil

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	var mouse []MouseEvent
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && !closed && incomplete(buf[i:]) {
			if len(buf)-i <= maxPending {
				s.pending = append([]byte(nil), buf[i:]...)
			}
			buf = buf[:i]
			break
		}

		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'C': // Right arrow
				s.state.right = now
				i += 2
				continue
			case 'D': // Left arrow
				s.state.left = now
				i += 2
				continue
			case 'A', 'B': // Up/Down arrows are not used
				i += 2
				continue
			case '<':
				if ev, n, ok := parseSGRMouse(buf[i+3:]); ok {
					mouse = append(mouse, ev)
					i += 2 + n
					continue
				}
			}
		}

		applyByteToState(&s.state, b, now)
	}

	in = Input{
		Quit:    now.Sub(s.state.quit) < keyHoldDuration,
		Left:    now.Sub(s.state.left) < keyHoldDuration,
		Right:   now.Sub(s.state.right) < keyHoldDuration,
		Start:   now.Sub(s.state.start) < keyHoldDuration,
		Mouse:   mouse,
		Pressed: buf,
	}
	return in, closed
}

// incomplete reports whether p, starting at ESC, is a prefix of an arrow key
// or SGR mouse sequence that has not been fully received yet.
func incomplete(p []byte) bool {
	switch {
	case len(p) == 1:
		return true
	case p[1] != '[':
		return false
	case len(p) == 2:
		return true
	case p[2] != '<':
		return false
	}
	for _, c := range p[3:] {
		if (c < '0' || c > '9') && c != ';' {
			return false
		}
	}
	return true
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03': // Ctrl+C arrives as a byte in raw mode
		state.quit = now
	case 'a', 'A', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case ' ', '\n', '\r':
		state.start = now
	}
}

// parseSGRMouse decodes "Cb;Cx;Cy(M|m)" following an "ESC [ <" prefix.
// n is the number of bytes consumed from p.
func parseSGRMouse(p []byte) (ev MouseEvent, n int, ok bool) {
	var fields [3]int
	field := 0
	start := 0
	for i, c := range p {
		switch {
		case c >= '0' && c <= '9':
			continue
		case c == ';':
			if field >= 2 {
				return ev, 0, false
			}
			v, err := strconv.Atoi(string(p[start:i]))
			if err != nil {
				return ev, 0, false
			}
			fields[field] = v
			field++
			start = i + 1
		case c == 'M' || c == 'm':
			if field != 2 {
				return ev, 0, false
			}
			v, err := strconv.Atoi(string(p[start:i]))
			if err != nil {
				return ev, 0, false
			}
			fields[2] = v
			ev.Col, ev.Row = fields[1], fields[2]
			button := fields[0]
			switch {
			case c == 'm':
				ev.Action = MouseUp
			case button&32 != 0:
				ev.Action = MouseMove
			case button&64 != 0:
				ev.Action = MouseWheel
			default:
				ev.Action = MouseDown
			}
			return ev, i + 1, true
		default:
			return ev, 0, false
		}
	}
	return ev, 0, false
}
