package roster

import "time"

// idSource hands out strictly increasing ids derived from the wall clock, so
// ids are never reused even when many are issued within one millisecond.
type idSource struct {
	now  func() time.Time
	last int64
}

func (g *idSource) next() int64 {
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
