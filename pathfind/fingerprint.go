package pathfind

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// fingerprintVersion is mixed into every key so a format change never
// matches keys produced by an older layout.
const fingerprintVersion = 1

const (
	limitsAbsent  = 0
	limitsPresent = 1
)

// Fingerprint returns the cache key of an A* request bounded by
// DefaultOverflow. A Planner built with another overflow bound keys its
// queries differently, so use Request.Fingerprint for those. It covers every cell in row order, every limit, the heuristic tag, both
// endpoints and the direction flag.
func Fingerprint(h Heuristic, cells [][]int, limits []int, sx, sy, gx, gy int, allDirections bool) uint64 {
	return Request{
		Heuristic:     h,
		Cells:         cells,
		Limits:        limits,
		Start:         Coordinate{X: sx, Y: sy},
		Goal:          Coordinate{X: gx, Y: gy},
		AllDirections: allDirections,
		Algorithm:     AStar,
		Overflow:      DefaultOverflow,
	}.Fingerprint()
}

// Fingerprint hashes everything that can change the result of r
func (r Request) Fingerprint() uint64 {
	w := keyWriter{digest: xxhash.New()}

	w.writeInt(fingerprintVersion)
	w.writeInt(len(r.Cells))
	for _, row := range r.Cells {
		w.writeInt(len(row))
		for _, value := range row {
			w.writeInt(value)
		}
	}

	if r.Limits == nil {
		w.writeInt(limitsAbsent)
	} else {
		w.writeInt(limitsPresent)
		w.writeInt(len(r.Limits))
		for _, limit := range r.Limits {
			w.writeInt(limit)
		}
	}

	w.writeInt(orDefault(r.Heuristic).Type())
	w.writeInt(r.Start.X)
	w.writeInt(r.Start.Y)
	w.writeInt(r.Goal.X)
	w.writeInt(r.Goal.Y)
	w.writeBool(r.AllDirections)
	w.writeInt(int(r.Algorithm))
	w.writeBool(r.Flying)
	w.writeInt(r.overflow())

	return w.digest.Sum64()
}

type keyWriter struct {
	digest *xxhash.Digest
	buf    [8]byte
}

func (w *keyWriter) writeInt(v int) {
	binary.LittleEndian.PutUint64(w.buf[:], uint64(int64(v)))
	w.digest.Write(w.buf[:])
}

func (w *keyWriter) writeBool(v bool) {
	if v {
		w.writeInt(1231)
		return
	}
	w.writeInt(1237)
}
