package pokesync

import "sort"

// IDSet is a set of row ids.
type IDSet map[uint]struct{}

func NewIDSet(ids ...uint) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Add(id uint) {
	s[id] = struct{}{}
}

func (s IDSet) Has(id uint) bool {
	_, ok := s[id]
	return ok
}

// Minus returns the ids of s that are not in other.
func (s IDSet) Minus(other IDSet) IDSet {
	out := make(IDSet)
	for id := range s {
		if !other.Has(id) {
			out.Add(id)
		}
	}
	return out
}

// Slice returns the ids in ascending order.
func (s IDSet) Slice() []uint {
	out := make([]uint, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
