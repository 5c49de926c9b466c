package engine

// stateStack holds the hashes of the game positions before the search root
// followed by the positions on the current search path.
type stateStack struct {
	hashes    []uint64
	rootIndex int
}

// reset loads the game history. The root itself is pushed by the search.
func (st *stateStack) reset(history []uint64) {
	st.hashes = append(st.hashes[:0], history...)
	st.rootIndex = len(st.hashes)
}

func (st *stateStack) push(hash uint64) { st.hashes = append(st.hashes, hash) }

func (st *stateStack) pop() {
	if len(st.hashes) == 0 {
		return
	}
	st.hashes = st.hashes[:len(st.hashes)-1]
}

// isDraw reports whether hash repeats a position on the search path, or
// occurs twice in the game before the root.
func (st *stateStack) isDraw(hash uint64) bool {
	count, lastIdx := repetitionInfo(st.hashes, hash)
	if count >= 2 {
		return true
	}
	return count >= 1 && lastIdx >= st.rootIndex
}

// repetitionInfo counts earlier occurrences of hash and the index of the
// last one, -1 if none.
func repetitionInfo(hashes []uint64, hash uint64) (count int, lastIdx int) {
	lastIdx = -1
	for i, h := range hashes {
		if h == hash {
			count++
			lastIdx = i
		}
	}
	return count, lastIdx
}
