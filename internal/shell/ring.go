package shell

import "fmt"

// TileID identifies a tile. IDs come from an IDSource shared by every ring of
// a shell, increase monotonically and are never reused.
type TileID uint32

// IDSource hands out tile identities.
type IDSource struct {
	last TileID
}

// Next returns a fresh, never previously returned id.
func (s *IDSource) Next() TileID {
	s.last++
	return s.last
}

// Orientation selects how a tile is split.
type Orientation int

const (
	// SplitHorizontal divides a tile with a horizontal line (top/bottom).
	SplitHorizontal Orientation = iota
	// SplitVertical divides a tile with a vertical line (left/right).
	SplitVertical
)

func (o Orientation) String() string {
	switch o {
	case SplitHorizontal:
		return "horizontal"
	case SplitVertical:
		return "vertical"
	default:
		return fmt.Sprintf("orientation(%d)", int(o))
	}
}

const nilIndex = -1

type tileNode struct {
	id   TileID
	rect Rect
	view *boundView
	next int
	prev int
	live bool
}

// Ring is a circular doubly linked list of tiles kept in an arena. Links are
// arena indices; freed slots go to a free list and are reused for new tiles
// (with new ids).
type Ring struct {
	nodes    []tileNode
	free     []int
	index    map[TileID]int
	head     int
	count    int
	capacity int
	ids      *IDSource
}

// NewRing creates an empty ring. capacity <= 0 means unlimited.
func NewRing(ids *IDSource, capacity int) *Ring {
	if ids == nil {
		ids = &IDSource{}
	}
	return &Ring{
		index:    make(map[TileID]int),
		head:     nilIndex,
		capacity: capacity,
		ids:      ids,
	}
}

// Len returns the number of live tiles.
func (r *Ring) Len() int {
	return r.count
}

// Contains reports whether id is a live member of the ring.
func (r *Ring) Contains(id TileID) bool {
	_, ok := r.index[id]
	return ok
}

// Head returns the tile the ring is anchored at.
func (r *Ring) Head() (TileID, bool) {
	if r.head == nilIndex {
		return 0, false
	}
	return r.nodes[r.head].id, true
}

func (r *Ring) alloc(region Rect) (int, error) {
	if r.capacity > 0 && r.count >= r.capacity {
		return nilIndex, fmt.Errorf("ring holds %d tiles (capacity %d): %w", r.count, r.capacity, ErrAllocationFailure)
	}
	var idx int
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.nodes = append(r.nodes, tileNode{})
		idx = len(r.nodes) - 1
	}
	id := r.ids.Next()
	r.nodes[idx] = tileNode{id: id, rect: region, next: idx, prev: idx, live: true}
	r.index[id] = idx
	r.count++
	return idx, nil
}

func (r *Ring) release(idx int) *boundView {
	n := r.nodes[idx]
	delete(r.index, n.id)
	r.nodes[idx] = tileNode{next: nilIndex, prev: nilIndex}
	r.free = append(r.free, idx)
	r.count--
	return n.view
}

func (r *Ring) lookup(id TileID) (int, error) {
	idx, ok := r.index[id]
	if !ok {
		return nilIndex, fmt.Errorf("tile %d: %w", id, ErrUnknownTile)
	}
	return idx, nil
}

// InsertInitial creates the sole tile of an empty ring spanning region.
func (r *Ring) InsertInitial(region Rect) (TileID, error) {
	if r.count != 0 {
		return 0, fmt.Errorf("ring already holds %d tiles: %w", r.count, ErrInvalidState)
	}
	idx, err := r.alloc(region)
	if err != nil {
		return 0, err
	}
	r.head = idx
	return r.nodes[idx].id, nil
}

// Split halves tile id and links the new half directly after it. The bound
// view, if any, stays with the original tile.
func (r *Ring) Split(id TileID, o Orientation) (TileID, error) {
	idx, err := r.lookup(id)
	if err != nil {
		return 0, err
	}
	orig := r.nodes[idx].rect
	var keep, give Rect
	switch o {
	case SplitHorizontal:
		if orig.Height < 2 {
			return 0, fmt.Errorf("tile %d is %d px tall: %w", id, orig.Height, ErrAllocationFailure)
		}
		top := orig.Height / 2
		keep = Rect{X: orig.X, Y: orig.Y, Width: orig.Width, Height: top}
		give = Rect{X: orig.X, Y: orig.Y + top, Width: orig.Width, Height: orig.Height - top}
	case SplitVertical:
		if orig.Width < 2 {
			return 0, fmt.Errorf("tile %d is %d px wide: %w", id, orig.Width, ErrAllocationFailure)
		}
		left := orig.Width / 2
		keep = Rect{X: orig.X, Y: orig.Y, Width: left, Height: orig.Height}
		give = Rect{X: orig.X + left, Y: orig.Y, Width: orig.Width - left, Height: orig.Height}
	default:
		return 0, fmt.Errorf("split tile %d: unknown %s", id, o)
	}

	nidx, err := r.alloc(give)
	if err != nil {
		return 0, err
	}
	r.nodes[idx].rect = keep

	after := r.nodes[idx].next
	r.nodes[nidx].prev = idx
	r.nodes[nidx].next = after
	r.nodes[after].prev = nidx
	r.nodes[idx].next = nidx
	return r.nodes[nidx].id, nil
}

// Remove unlinks tile id. The last tile of a ring can only go away through
// FreeAll. The removed tile's bound view is returned so the caller can hide
// it; focus is not reassigned here.
func (r *Ring) Remove(id TileID) (*boundView, error) {
	idx, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("remove tile %d: %w: %w", id, ErrInvalidState, ErrUnknownTile)
	}
	if r.count == 1 {
		return nil, fmt.Errorf("remove tile %d: last tile in ring: %w", id, ErrInvalidState)
	}
	next := r.nodes[idx].next
	prev := r.nodes[idx].prev
	r.nodes[prev].next = next
	r.nodes[next].prev = prev
	if r.head == idx {
		r.head = next
	}
	return r.release(idx), nil
}

// FreeAll tears the ring down. The cycle is broken exactly once, before any
// tile is released, and the resulting chain is freed front to back. Bound
// views are returned in ring order.
func (r *Ring) FreeAll() []*boundView {
	if r.count == 0 || r.head == nilIndex {
		return nil
	}
	start := r.head
	r.nodes[r.nodes[start].prev].next = nilIndex

	var views []*boundView
	for idx := start; idx != nilIndex; {
		next := r.nodes[idx].next
		if v := r.release(idx); v != nil {
			views = append(views, v)
		}
		idx = next
	}
	r.head = nilIndex
	r.count = 0
	return views
}

// Bind replaces the view bound to tile id and returns the previous one.
func (r *Ring) Bind(id TileID, v *boundView) (*boundView, error) {
	idx, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	prev := r.nodes[idx].view
	r.nodes[idx].view = v
	return prev, nil
}

// Swap exchanges the views bound to tiles a and b.
func (r *Ring) Swap(a, b TileID) error {
	ai, err := r.lookup(a)
	if err != nil {
		return err
	}
	bi, err := r.lookup(b)
	if err != nil {
		return err
	}
	r.nodes[ai].view, r.nodes[bi].view = r.nodes[bi].view, r.nodes[ai].view
	return nil
}

// Next returns the tile after id.
func (r *Ring) Next(id TileID) (TileID, error) {
	idx, err := r.lookup(id)
	if err != nil {
		return 0, err
	}
	return r.nodes[r.nodes[idx].next].id, nil
}

// Prev returns the tile before id.
func (r *Ring) Prev(id TileID) (TileID, error) {
	idx, err := r.lookup(id)
	if err != nil {
		return 0, err
	}
	return r.nodes[r.nodes[idx].prev].id, nil
}

// Rect returns the geometry of tile id.
func (r *Ring) Rect(id TileID) (Rect, error) {
	idx, err := r.lookup(id)
	if err != nil {
		return Rect{}, err
	}
	return r.nodes[idx].rect, nil
}

// SetRect replaces the geometry of tile id.
func (r *Ring) SetRect(id TileID, rect Rect) error {
	idx, err := r.lookup(id)
	if err != nil {
		return err
	}
	r.nodes[idx].rect = rect
	return nil
}

func (r *Ring) view(id TileID) *boundView {
	idx, ok := r.index[id]
	if !ok {
		return nil
	}
	return r.nodes[idx].view
}

// Tiles returns every tile id in ring order starting at the head.
func (r *Ring) Tiles() []TileID {
	if r.head == nilIndex {
		return nil
	}
	out := make([]TileID, 0, r.count)
	idx := r.head
	for i := 0; i < r.count; i++ {
		out = append(out, r.nodes[idx].id)
		idx = r.nodes[idx].next
	}
	return out
}

// scale rescales every tile from an oldW x oldH output to newW x newH.
func (r *Ring) scale(oldW, oldH, newW, newH int) {
	for _, idx := range r.index {
		r.nodes[idx].rect = r.nodes[idx].rect.scale(oldW, oldH, newW, newH)
	}
}
