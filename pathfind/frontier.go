package pathfind

// ScoredPath is a candidate route waiting in the frontier
type ScoredPath struct {
	Score float64
	Path  []Coordinate
}

// Tail returns the last coordinate of the path
func (p *ScoredPath) Tail() Coordinate {
	return p.Path[len(p.Path)-1]
}

// extend copies the path and appends next
func (p *ScoredPath) extend(next Coordinate) []Coordinate {
	path := make([]Coordinate, len(p.Path), len(p.Path)+1)
	copy(path, p.Path)
	return append(path, next)
}

// frontier is kept sorted by ascending score; index 0 is popped first.
type frontier []*ScoredPath

func (f frontier) Len() int { return len(f) }

// insert places the entry before the first entry whose score is > score,
// or at the end if there is none. Equal scores pop in insertion order.
func (f *frontier) insert(score float64, path []Coordinate) {
	entry := &ScoredPath{Score: score, Path: path}
	queue := *f
	for i, existing := range queue {
		if existing.Score > score {
			queue = append(queue, nil)
			copy(queue[i+1:], queue[i:])
			queue[i] = entry
			*f = queue
			return
		}
	}
	*f = append(queue, entry)
}

// pop removes and returns the lowest scored entry
func (f *frontier) pop() *ScoredPath {
	queue := *f
	entry := queue[0]
	queue[0] = nil
	*f = queue[1:]
	return entry
}

func (f *frontier) reset() {
	clear(*f)
	*f = (*f)[:0]
}
