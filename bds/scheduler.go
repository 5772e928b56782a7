package bds

// Advance runs up to budget scheduler rounds and returns the budget left
// unspent. Each round gives one leaf of work to the incomplete treehash
// instance which has made the least progress, that is the one with the
// lowest node on its stack, so that no instance misses its deadline. Ties go
// to the lowest level. When every instance is completed the remaining budget
// is returned immediately.
func (st *State) Advance(budget int) int {
	if st.err != nil {
		return budget
	}
	for ; budget > 0; budget-- {
		th := st.mostUrgent()
		if th == nil {
			break
		}
		th.update(st.hasher)
	}
	return budget
}

func (st *State) mostUrgent() *Treehash {
	var focus *Treehash
	var low uint8
	for h := range st.treehash {
		th := &st.treehash[h]
		if th.completed {
			continue
		}
		if l := th.MinHeight(); focus == nil || l < low {
			focus, low = th, l
		}
	}
	return focus
}
