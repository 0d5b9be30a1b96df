package object

// PruneMargin is how far below the viewport an entity may travel before it
// is dropped.
const PruneMargin = 140.0

// Pool is an unordered collection of live entities of one kind.
// Entities are never recycled: pruned or consumed entries are dropped.
type Pool struct {
	kind  Kind
	items []Entity
}

// NewPool creates an empty pool for entities of kind k.
func NewPool(k Kind) *Pool {
	return &Pool{kind: k}
}

// Add inserts an entity as the pool's kind.
func (p *Pool) Add(e Entity) {
	e.Kind = p.kind
	p.items = append(p.items, e)
}

// Len returns the number of live entities.
func (p *Pool) Len() int {
	return len(p.items)
}

// Items returns the live entities. The slice is only valid until the next
// mutating call.
func (p *Pool) Items() []Entity {
	return p.items
}

// Clear drops every entity.
func (p *Pool) Clear() {
	clear(p.items)
	p.items = p.items[:0]
}

// Advance moves every entity down by its speed, then drops those whose Y
// exceeds limit. Movement always happens before the prune check.
func (p *Pool) Advance(dt, limit float64) {
	for i := range p.items {
		p.items[i].Y += p.items[i].Speed * dt
	}
	p.Filter(func(e *Entity) bool {
		return e.Y <= limit
	})
}

// Align recomputes every entity's X from its lane, so a resize keeps
// entities lane-aligned mid-flight.
func (p *Pool) Align(w World) {
	for i := range p.items {
		p.items[i].X = w.LaneCenter(p.items[i].Lane)
	}
}

// Filter keeps only the entities for which keep returns true. keep may
// mutate the entity it is given. Returns the number of dropped entities.
func (p *Pool) Filter(keep func(e *Entity) bool) int {
	kept := p.items[:0] // reuse backing array
	for i := range p.items {
		if keep(&p.items[i]) {
			kept = append(kept, p.items[i])
		}
	}
	dropped := len(p.items) - len(kept)
	clear(p.items[len(kept):])
	p.items = kept
	return dropped
}
