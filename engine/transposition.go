package engine

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"chess-core/board"
)

const (
	// Flags. The zero value marks an empty slot.
	AlphaFlag uint8 = iota + 1 // upper bound
	BetaFlag                   // lower bound
	ExactFlag

	clusterSize = 4
	ttShards    = 64
)

type TTEntry struct {
	Hash  uint64
	Move  board.Move
	Score int32
	Depth int8
	Flag  uint8
	Gen   uint8
}

// ScoreAt converts the stored node-relative score back to one relative to
// the root, ply plies above this node.
func (e TTEntry) ScoreAt(ply int) int {
	score := int(e.Score)
	if score >= MateThreshold {
		score -= ply
	} else if score <= -MateThreshold {
		score += ply
	}
	return score
}

type ttShard struct {
	mu      sync.RWMutex
	entries []TTEntry
}

// TransTable is a fixed-size, sharded hash table of search results. Every
// shard is guarded by its own lock so concurrent searches only contend on
// the same shard.
type TransTable struct {
	shards           [ttShards]ttShard
	clustersPerShard uint64
	generation       atomic.Uint32

	probes atomic.Uint64
	hits   atomic.Uint64
	stores atomic.Uint64
}

type TTStats struct {
	Capacity int
	Used     int
	Probes   uint64
	Hits     uint64
	Stores   uint64
}

// NewTransTable allocates a table of roughly sizeMB megabytes. The table
// never grows after construction.
func NewTransTable(sizeMB int) *TransTable {
	entrySize := uint64(unsafe.Sizeof(TTEntry{}))
	totalBytes := uint64(max(sizeMB, 0)) * 1024 * 1024
	clusterCount := totalBytes / (entrySize * clusterSize)
	perShard := max(clusterCount/ttShards, 1)

	tt := &TransTable{clustersPerShard: perShard}
	for i := range tt.shards {
		tt.shards[i].entries = make([]TTEntry, perShard*clusterSize)
	}
	return tt
}

func (tt *TransTable) locate(hash uint64) (*ttShard, int) {
	s := &tt.shards[hash>>58]
	return s, int(hash%tt.clustersPerShard) * clusterSize
}

func (tt *TransTable) gen() uint8 { return uint8(tt.generation.Load()) }

// NewSearch starts a new generation. Entries from older generations are
// replaced first.
func (tt *TransTable) NewSearch() { tt.generation.Add(1) }

// Probe returns a copy of the entry stored for hash.
func (tt *TransTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes.Add(1)
	s, base := tt.locate(hash)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := base; i < base+clusterSize; i++ {
		if e := s.entries[i]; e.Flag != 0 && e.Hash == hash {
			tt.hits.Add(1)
			return e, true
		}
	}
	return TTEntry{}, false
}

// Store records a search result. Mate scores are made relative to the node
// by adding ply so they stay valid when reached along another path.
//
// Replacement prefers, in order: the slot already holding hash (only if the
// new result is at least as deep or the old one is stale), an empty slot, and
// finally the stalest, shallowest slot in the cluster.
func (tt *TransTable) Store(hash uint64, depth, ply int, move board.Move, score int, flag uint8) {
	if score >= MateThreshold {
		score += ply
	} else if score <= -MateThreshold {
		score -= ply
	}
	gen := tt.gen()
	s, base := tt.locate(hash)

	s.mu.Lock()
	defer s.mu.Unlock()

	target := -1
	for i := base; i < base+clusterSize; i++ {
		e := &s.entries[i]
		if e.Flag != 0 && e.Hash == hash {
			if int(e.Depth) > depth && e.Gen == gen {
				return
			}
			target = i
			break
		}
	}

	if target == -1 {
		for i := base; i < base+clusterSize; i++ {
			if s.entries[i].Flag == 0 {
				target = i
				break
			}
		}
	}

	if target == -1 {
		target = base
		worst := replaceValue(s.entries[base], gen)
		for i := base + 1; i < base+clusterSize; i++ {
			if v := replaceValue(s.entries[i], gen); v < worst {
				worst = v
				target = i
			}
		}
	}

	s.entries[target] = TTEntry{
		Hash:  hash,
		Move:  move,
		Score: int32(score),
		Depth: int8(Clamp(depth, 0, 127)),
		Flag:  flag,
		Gen:   gen,
	}
	tt.stores.Add(1)
}

// replaceValue ranks entries for eviction: lower is evicted first. Each
// generation of age costs as much as eight plies of depth.
func replaceValue(e TTEntry, gen uint8) int {
	age := int(gen - e.Gen)
	return int(e.Depth) - 8*age
}

// Clear empties the table and resets the generation counter.
func (tt *TransTable) Clear() {
	for i := range tt.shards {
		s := &tt.shards[i]
		s.mu.Lock()
		clear(s.entries)
		s.mu.Unlock()
	}
	tt.generation.Store(0)
	tt.probes.Store(0)
	tt.hits.Store(0)
	tt.stores.Store(0)
}

// Stats reports capacity and occupancy. Used walks the whole table.
func (tt *TransTable) Stats() TTStats {
	st := TTStats{
		Probes: tt.probes.Load(),
		Hits:   tt.hits.Load(),
		Stores: tt.stores.Load(),
	}
	for i := range tt.shards {
		s := &tt.shards[i]
		s.mu.RLock()
		st.Capacity += len(s.entries)
		for _, e := range s.entries {
			if e.Flag != 0 {
				st.Used++
			}
		}
		s.mu.RUnlock()
	}
	return st
}
