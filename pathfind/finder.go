package pathfind

import (
	"context"
	"sync"
	"sync/atomic"
)

// PathListener receives the result of Finder.Run
type PathListener func(path []Coordinate)

// Options configures a Finder
type Options struct {
	Algorithm Algorithm
	Overflow  int
	Flying    bool
	Listener  PathListener
}

// Option is a function that modifies Options
type Option func(*Options)

// WithAlgorithm selects Dijkstra or AStar (the default)
func WithAlgorithm(algorithm Algorithm) Option {
	return func(o *Options) { o.Algorithm = algorithm }
}

// WithOverflow sets the maximum number of frontier pops per search
func WithOverflow(overflow int) Option {
	return func(o *Options) { o.Overflow = overflow }
}

// WithFlying makes the search ignore walkability
func WithFlying(flying bool) Option {
	return func(o *Options) { o.Flying = flying }
}

// WithListener registers a callback invoked by Run
func WithListener(listener PathListener) Option {
	return func(o *Options) { o.Listener = listener }
}

// Finder is a reusable best-first search engine.
//
// A Finder runs one search at a time; concurrent ComputeRoute calls on the
// same Finder are serialized. Stop may be called from any goroutine.
type Finder struct {
	mu sync.Mutex

	heuristic Heuristic
	algorithm Algorithm
	overflow  int
	flying    bool
	listener  PathListener

	// preset target used by Run
	grid          Grid
	start         Coordinate
	end           Coordinate
	allDirections bool

	// run state, reset by every search
	goal     Coordinate
	frontier frontier
	open     map[Coordinate]struct{}
	closed   map[Coordinate]struct{}
	expanded int
	outcome  Outcome

	running  atomic.Bool
	shutdown atomic.Bool
}

// NewFinder creates a Finder scoring with h (Manhattan when nil)
func NewFinder(h Heuristic, options ...Option) *Finder {
	opts := Options{
		Algorithm: AStar,
		Overflow:  DefaultOverflow,
	}
	for _, option := range options {
		option(&opts)
	}

	return &Finder{
		heuristic: orDefault(h),
		algorithm: opts.Algorithm,
		overflow:  opts.Overflow,
		flying:    opts.Flying,
		listener:  opts.Listener,
	}
}

// SetTarget presets the request executed by Run
func (f *Finder) SetTarget(grid Grid, start, end Coordinate, allDirections bool) *Finder {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grid = grid
	f.start = start
	f.end = end
	f.allDirections = allDirections
	return f
}

// Run searches the preset target and hands the path to the listener, if any
func (f *Finder) Run() []Coordinate {
	f.mu.Lock()
	grid, start, end, allDirections := f.grid, f.start, f.end, f.allDirections
	listener := f.listener
	f.mu.Unlock()

	if grid == nil {
		return nil
	}
	path := f.ComputeRoute(grid, start.X, start.Y, end.X, end.Y, allDirections)
	if listener != nil {
		listener(path)
	}
	return path
}

// ComputeRoute searches from (sx, sy) to (gx, gy). It returns nil when no route
// was found, the overflow bound was hit, or the search was stopped.
func (f *Finder) ComputeRoute(grid Grid, sx, sy, gx, gy int, allDirections bool) []Coordinate {
	return f.ComputeRouteContext(context.Background(), grid, sx, sy, gx, gy, allDirections)
}

// ComputeRouteContext is ComputeRoute that also stops when ctx is done
func (f *Finder) ComputeRouteContext(ctx context.Context, grid Grid, sx, sy, gx, gy int, allDirections bool) []Coordinate {
	path, _ := f.route(ctx, nil, grid, Coordinate{X: sx, Y: sy}, Coordinate{X: gx, Y: gy}, allDirections)
	return path
}

// route runs one search. A nil h uses the Finder's own heuristic.
func (f *Finder) route(ctx context.Context, h Heuristic, grid Grid, start, goal Coordinate, allDirections bool) ([]Coordinate, Outcome) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.shutdown.Load() {
		f.outcome = OutcomeClosed
		return nil, OutcomeClosed
	}
	if h == nil {
		h = f.heuristic
	}

	f.expanded = 0
	if start == goal {
		f.outcome = OutcomeTrivial
		return []Coordinate{start}, OutcomeTrivial
	}

	f.reset(start, goal)
	path, outcome := f.search(ctx, h, grid, allDirections)
	f.outcome = outcome
	return path, outcome
}

func (f *Finder) reset(start, goal Coordinate) {
	f.goal = goal
	if f.open == nil {
		f.open = make(map[Coordinate]struct{})
	} else {
		clear(f.open)
	}
	if f.closed == nil {
		f.closed = make(map[Coordinate]struct{})
	} else {
		clear(f.closed)
	}
	f.frontier.reset()

	f.open[start] = struct{}{}
	f.frontier.insert(0, []Coordinate{start})
}

func (f *Finder) search(ctx context.Context, h Heuristic, grid Grid, allDirections bool) ([]Coordinate, Outcome) {
	f.running.Store(true)
	defer f.running.Store(false)

	done := ctx.Done()
	goalX, goalY := float64(f.goal.X), float64(f.goal.Y)

	for step := 0; f.frontier.Len() > 0; step++ {
		if step > f.overflow {
			f.frontier.reset()
			return nil, OutcomeOverflow
		}
		if !f.running.Load() {
			return nil, OutcomeCancelled
		}
		if done != nil {
			select {
			case <-done:
				return nil, OutcomeCancelled
			default:
			}
		}

		entry := f.frontier.pop()
		current := entry.Tail()
		f.expanded++

		if f.algorithm == AStar {
			f.closed[current] = struct{}{}
		}
		if current == f.goal {
			return copyPath(entry.Path), OutcomeFound
		}

		for _, next := range grid.Neighbors(current, allDirections) {
			if !f.flying && !grid.IsWalkable(next) {
				continue
			}
			if f.algorithm == AStar {
				if _, isClosed := f.closed[next]; isClosed {
					continue
				}
				if _, isOpen := f.open[next]; isOpen {
					continue
				}
			}
			f.open[next] = struct{}{}

			score := entry.Score + h.Score(goalX, goalY, float64(next.X), float64(next.Y))
			f.frontier.insert(score, entry.extend(next))
		}
	}

	return nil, OutcomeNoPath
}

// Stop asks a running search to give up at its next iteration
func (f *Finder) Stop() *Finder {
	f.running.Store(false)
	return f
}

// IsRunning reports whether a search is in progress
func (f *Finder) IsRunning() bool {
	return f.running.Load()
}

// SetOverflow changes the frontier pop bound for subsequent searches
func (f *Finder) SetOverflow(overflow int) *Finder {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overflow = overflow
	return f
}

// Overflow returns the frontier pop bound
func (f *Finder) Overflow() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overflow
}

// Algorithm returns the configured algorithm
func (f *Finder) Algorithm() Algorithm {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.algorithm
}

// Flying reports whether walkability checks are bypassed
func (f *Finder) Flying() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flying
}

// Heuristic returns the Finder's default heuristic
func (f *Finder) Heuristic() Heuristic {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.heuristic
}

// Outcome reports how the last search ended
func (f *Finder) Outcome() Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome
}

// Expanded returns the number of frontier pops made by the last search
func (f *Finder) Expanded() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.expanded
}

// PendingFrontier returns the number of entries left in the frontier after the
// last search. A stopped search leaves its frontier in place.
func (f *Finder) PendingFrontier() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frontier.Len()
}

// Close releases the search state. A closed Finder returns nil from every
// later search. Close is safe to call more than once.
func (f *Finder) Close() {
	f.running.Store(false)
	f.shutdown.Store(true)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.frontier = nil
	f.open = nil
	f.closed = nil
	f.grid = nil
}

// IsClosed reports whether Close was called
func (f *Finder) IsClosed() bool {
	return f.shutdown.Load()
}
