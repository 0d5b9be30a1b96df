package input

// Key names accepted by Keys. These match the names browsers and most
// windowing toolkits report for the steering keys.
const (
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyA          = "a"
	KeyD          = "d"
)

// Intent is the steering request sampled once per tick.
type Intent struct {
	MoveLeft  bool
	MoveRight bool
}

type steeringKey int

const (
	arrowLeft steeringKey = iota
	arrowRight
	letterA
	letterD
	steeringKeyCount
)

var keyNames = map[string]steeringKey{
	KeyArrowLeft:  arrowLeft,
	KeyArrowRight: arrowRight,
	KeyA:          letterA,
	KeyD:          letterD,
	"A":           letterA,
	"D":           letterD,
}

// Keys is the set of currently held steering keys.
// Unrecognized key names are ignored.
type Keys struct {
	held [steeringKeyCount]bool
}

// Down marks a key as held. Returns false if the name is not a steering key.
func (k *Keys) Down(name string) bool {
	id, ok := keyNames[name]
	if ok {
		k.held[id] = true
	}
	return ok
}

// Up releases a key. Returns false if the name is not a steering key.
func (k *Keys) Up(name string) bool {
	id, ok := keyNames[name]
	if ok {
		k.held[id] = false
	}
	return ok
}

// Reset releases every key.
func (k *Keys) Reset() {
	k.held = [steeringKeyCount]bool{}
}

// Intent converts the held keys to a steering intent.
func (k *Keys) Intent() Intent {
	return Intent{
		MoveLeft:  k.held[arrowLeft] || k.held[letterA],
		MoveRight: k.held[arrowRight] || k.held[letterD],
	}
}

// Pointer tracks a press-and-drag gesture. Moves only count while the pointer
// is down; the latest x is kept until the next tick consumes it.
type Pointer struct {
	active  bool
	pending bool
	x       float64
}

// Down starts a drag at x.
func (p *Pointer) Down(x float64) {
	p.active = true
	p.set(x)
}

// Move updates the drag position. Ignored unless the pointer is down.
func (p *Pointer) Move(x float64) {
	if !p.active {
		return
	}
	p.set(x)
}

// Up ends the drag. Also used for cancel and leave events.
func (p *Pointer) Up() {
	p.active = false
}

// Take returns the latest unconsumed pointer x, if any.
func (p *Pointer) Take() (float64, bool) {
	if !p.pending {
		return 0, false
	}
	p.pending = false
	return p.x, true
}

func (p *Pointer) set(x float64) {
	p.x = x
	p.pending = true
}
