package feed

import "sort"

// IDSet is the watched ledger: the set of consumed item IDs.
type IDSet map[string]struct{}

func NewIDSet(ids []string) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// With returns a copy of s containing id.
func (s IDSet) With(id string) IDSet {
	out := s.clone()
	out[id] = struct{}{}
	return out
}

// Without returns a copy of s lacking id.
func (s IDSet) Without(id string) IDSet {
	out := s.clone()
	delete(out, id)
	return out
}

// Slice returns the IDs in sorted order.
func (s IDSet) Slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s IDSet) clone() IDSet {
	out := make(IDSet, len(s)+1)
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}
