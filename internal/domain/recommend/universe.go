package recommend

import "sort"

type Skill struct {
	ID   int64
	Name string
}

type SkillSet map[int64]struct{}

func NewSkillSet(ids []int64) SkillSet {
	set := make(SkillSet, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

func (s SkillSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s SkillSet) SharedWith(other SkillSet) int {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	shared := 0
	for id := range small {
		if large.Has(id) {
			shared++
		}
	}
	return shared
}

type Universe struct {
	ids   []int64
	index map[int64]int
}

func NewUniverse(ids []int64) Universe {
	seen := make(map[int64]struct{}, len(ids))
	ordered := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	index := make(map[int64]int, len(ordered))
	for i, id := range ordered {
		index[id] = i
	}
	return Universe{ids: ordered, index: index}
}

func (u Universe) Size() int {
	return len(u.ids)
}

func (u Universe) Contains(id int64) bool {
	_, ok := u.index[id]
	return ok
}

func (u Universe) Position(id int64) (int, bool) {
	pos, ok := u.index[id]
	return pos, ok
}
