package store

// collection keeps entities by id in insertion order. Replacing an entity
// keeps its position.
type collection[T any] struct {
	order []string
	byID  map[string]T
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{byID: make(map[string]T)}
}

func (c *collection[T]) get(id string) (T, bool) {
	v, ok := c.byID[id]
	return v, ok
}

func (c *collection[T]) has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

func (c *collection[T]) put(id string, v T) {
	if _, ok := c.byID[id]; !ok {
		c.order = append(c.order, id)
	}
	c.byID[id] = v
}

func (c *collection[T]) remove(id string) bool {
	if _, ok := c.byID[id]; !ok {
		return false
	}
	delete(c.byID, id)
	for i, o := range c.order {
		if o == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// removeWhere drops every entity matching fn and returns how many were removed.
func (c *collection[T]) removeWhere(fn func(T) bool) int {
	kept := c.order[:0]
	removed := 0
	for _, id := range c.order {
		if fn(c.byID[id]) {
			delete(c.byID, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	c.order = kept
	return removed
}

func (c *collection[T]) all() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *collection[T]) len() int {
	return len(c.order)
}
