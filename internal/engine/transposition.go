package engine

import (
	"github.com/hailam/chessgym/internal/board"
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

// TTEntry represents an entry in the transposition table.
type TTEntry struct {
	Key      uint64     // Full Zobrist hash for verification
	BestMove board.Move // Best move found
	Score    int32      // Score (bounded by flag)
	Depth    int8       // Search depth
	Flag     TTFlag     // Type of bound
}

// TranspositionTable is a hash table for storing search results. It is owned
// by one Engine and is not safe for concurrent use.
type TranspositionTable struct {
	entries []TTEntry
	size    uint64
	mask    uint64

	hits   uint64
	probes uint64
}

// NewTranspositionTable creates a transposition table with the given size in MB.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	if sizeMB < 1 {
		sizeMB = 1
	}
	const entrySize = 24
	numEntries := roundDownToPowerOf2(uint64(sizeMB) * 1024 * 1024 / entrySize)

	return &TranspositionTable{
		entries: make([]TTEntry, numEntries),
		size:    numEntries,
		mask:    numEntries - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe looks up a position in the transposition table.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes++
	entry := tt.entries[hash&tt.mask]
	if entry.Key == hash && entry.Depth > 0 {
		tt.hits++
		return entry, true
	}
	return TTEntry{}, false
}

// Store saves a search result. An entry for the same position is only
// replaced by an equal or deeper search.
func (tt *TranspositionTable) Store(hash uint64, depth, score int, flag TTFlag, bestMove board.Move) {
	entry := &tt.entries[hash&tt.mask]
	if entry.Key == hash && int(entry.Depth) > depth {
		return
	}
	*entry = TTEntry{
		Key:      hash,
		BestMove: bestMove,
		Score:    int32(score),
		Depth:    int8(depth),
		Flag:     flag,
	}
}

// Clear empties the table.
func (tt *TranspositionTable) Clear() {
	clear(tt.entries)
	tt.hits = 0
	tt.probes = 0
}

// HashFull returns the permille of the table that is used, sampled from the
// first thousand slots.
func (tt *TranspositionTable) HashFull() int {
	sampleSize := 1000
	if uint64(sampleSize) > tt.size {
		sampleSize = int(tt.size)
	}
	used := 0
	for i := 0; i < sampleSize; i++ {
		if tt.entries[i].Depth > 0 {
			used++
		}
	}
	return used * 1000 / sampleSize
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// Size returns the number of entries in the table.
func (tt *TranspositionTable) Size() uint64 {
	return tt.size
}

// scoreFromTT converts a stored mate score back to distance from the root.
func scoreFromTT(score, ply int) int {
	if score > mateThreshold {
		return score - ply
	}
	if score < -mateThreshold {
		return score + ply
	}
	return score
}

// scoreToTT stores mate scores as distance from the current node.
func scoreToTT(score, ply int) int {
	if score > mateThreshold {
		return score + ply
	}
	if score < -mateThreshold {
		return score - ply
	}
	return score
}
