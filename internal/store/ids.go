package store

import "time"

// idSource hands out millisecond timestamps, bumped past the last issued
// value so two items created in the same millisecond never collide.
type idSource struct {
	now  func() time.Time
	last int64
}

func (s *idSource) next() int64 {
	n := s.now().UnixMilli()
	if n <= s.last {
		n = s.last + 1
	}
	s.last = n
	return n
}

// observe raises the floor after existing ids are loaded.
func (s *idSource) observe(id int64) {
	if id > s.last {
		s.last = id
	}
}
