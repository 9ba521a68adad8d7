package query

// IdSet is an insertion-ordered set of item identifiers.
type IdSet struct {
	ids  []string
	seen map[string]struct{}
}

func (s *IdSet) Add(ids ...string) {
	if s.seen == nil {
		s.seen = map[string]struct{}{}
	}
	for _, id := range ids {
		if len(id) == 0 {
			continue
		}
		if _, ok := s.seen[id]; ok {
			continue
		}
		s.seen[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
}

func (s *IdSet) Union(other *IdSet) {
	if other == nil {
		return
	}
	s.Add(other.ids...)
}

func (s *IdSet) Contains(id string) bool {
	_, ok := s.seen[id]
	return ok
}

func (s *IdSet) Len() int {
	return len(s.ids)
}

func (s *IdSet) Ids() []string {
	return append([]string(nil), s.ids...)
}

func NewIdSet(ids ...string) *IdSet {
	s := &IdSet{
		seen: map[string]struct{}{},
	}
	s.Add(ids...)
	return s
}
