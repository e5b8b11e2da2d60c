package block

import (
	"reflect"
	"slices"
)

// Store is the ordered in-memory collection of committed blocks for one period.
// Order is insertion order and is significant: predicates report the first match.
// Store is not safe for concurrent use.
type Store struct {
	blocks []*Block
	index  map[string]int
}

// NewStore creates a store holding blocks in the given order.
// A later block replaces an earlier one with the same ID.
func NewStore(blocks ...*Block) *Store {
	s := &Store{index: make(map[string]int, len(blocks))}
	for _, b := range blocks {
		s.Put(b)
	}
	return s
}

// Len returns the number of blocks.
func (s *Store) Len() int {
	return len(s.blocks)
}

// All returns the blocks in store order. The slice must not be modified.
func (s *Store) All() []*Block {
	return s.blocks
}

// Get returns the block with the given ID.
func (s *Store) Get(id string) (*Block, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.blocks[i], true
}

// Put inserts b, or replaces the block with the same ID in place.
func (s *Store) Put(b *Block) {
	if i, ok := s.index[b.ID]; ok {
		s.blocks[i] = b
		return
	}
	s.index[b.ID] = len(s.blocks)
	s.blocks = append(s.blocks, b)
}

// Remove deletes the block with the given ID and reports whether it existed.
func (s *Store) Remove(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.blocks = slices.Delete(s.blocks, i, i+1)
	delete(s.index, id)
	for j := i; j < len(s.blocks); j++ {
		s.index[s.blocks[j].ID] = j
	}
	return true
}

// OnLine returns the blocks on lineID in store order.
func (s *Store) OnLine(lineID string) []*Block {
	var out []*Block
	for _, b := range s.blocks {
		if b.LineID == lineID {
			out = append(out, b)
		}
	}
	return out
}

// ChildrenOf returns the synthesized changeover blocks whose parent is id.
func (s *Store) ChildrenOf(id string) []*Block {
	var out []*Block
	for _, b := range s.blocks {
		if b.IsChangeoverBlock && b.ParentID == id {
			out = append(out, b)
		}
	}
	return out
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	c := &Store{
		blocks: make([]*Block, len(s.blocks)),
		index:  make(map[string]int, len(s.blocks)),
	}
	for i, b := range s.blocks {
		c.blocks[i] = b.Clone()
		c.index[b.ID] = i
	}
	return c
}

// Equal reports whether both stores hold equal blocks in the same order.
func (s *Store) Equal(other *Store) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i, b := range s.blocks {
		if !reflect.DeepEqual(b, other.blocks[i]) {
			return false
		}
	}
	return true
}

// Diff returns the changes that turn from into to: blocks that are new or
// modified in to, and IDs of blocks that exist only in from.
// Fields derived by changeover detection are ignored.
func Diff(from, to *Store) (saved []*Block, deleted []string) {
	for _, b := range to.blocks {
		old, ok := from.Get(b.ID)
		if !ok || !sameStored(old, b) {
			saved = append(saved, b)
		}
	}
	for _, b := range from.blocks {
		if _, ok := to.Get(b.ID); !ok {
			deleted = append(deleted, b.ID)
		}
	}
	return saved, deleted
}

func sameStored(a, b *Block) bool {
	x, y := *a, *b
	x.ClearDerived()
	y.ClearDerived()
	return reflect.DeepEqual(x, y)
}
