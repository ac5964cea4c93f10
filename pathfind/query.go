package pathfind

import (
	"context"
	"sync"
)

// Request describes one point-to-point query.
//
// Cells and Limits feed the fingerprint. When Grid is nil the search runs on
// a Field built from them; otherwise Grid is searched and must agree with them.
// When Finder is set its algorithm, flying mode and overflow bound replace the
// request's own, and its heuristic is used if Heuristic is nil.
type Request struct {
	Heuristic     Heuristic
	Cells         [][]int
	Limits        []int
	Start         Coordinate
	Goal          Coordinate
	AllDirections bool
	Algorithm     Algorithm
	Flying        bool
	Overflow      int

	Grid   Grid
	Finder *Finder
}

func (r Request) overflow() int {
	if r.Overflow <= 0 {
		return DefaultOverflow
	}
	return r.Overflow
}

// Result is the answer to a Request. Path is never nil; an empty path means
// no route was found or the search gave up.
type Result struct {
	Path    []Coordinate `json:"path"`
	Outcome Outcome      `json:"-"`
	Cached  bool         `json:"cached"`
	Key     uint64       `json:"key"`
}

// Planner funnels queries through a shared Cache
type Planner struct {
	cache    *Cache
	overflow int
}

// PlannerOption configures a Planner
type PlannerOption func(*Planner)

// WithCache makes the Planner share c instead of owning a new cache
func WithCache(c *Cache) PlannerOption {
	return func(p *Planner) { p.cache = c }
}

// WithPlannerOverflow sets the overflow bound used by requests that leave it at zero
func WithPlannerOverflow(overflow int) PlannerOption {
	return func(p *Planner) { p.overflow = overflow }
}

// NewPlanner creates a Planner. Without WithCache it gets a cache of the default size.
func NewPlanner(options ...PlannerOption) *Planner {
	p := &Planner{overflow: DefaultOverflow}
	for _, option := range options {
		option(p)
	}
	if p.cache == nil {
		p.cache = NewCache(DefaultCacheBase * DefaultCacheMultiplier)
	}
	if p.overflow <= 0 {
		p.overflow = DefaultOverflow
	}
	return p
}

var (
	defaultPlanner     *Planner
	defaultPlannerOnce sync.Once
)

// Default returns the process-wide Planner used by the package-level functions
func Default() *Planner {
	defaultPlannerOnce.Do(func() {
		defaultPlanner = NewPlanner()
	})
	return defaultPlanner
}

// Cache returns the cache shared by this Planner
func (p *Planner) Cache() *Cache {
	return p.cache
}

// Overflow returns the default overflow bound
func (p *Planner) Overflow() int {
	return p.overflow
}

// Resolve answers req from the cache or by running a search.
//
// A request whose start equals its goal returns a one-cell path without
// touching the cache. Cancelled and closed searches return an empty path and
// are not stored. Two concurrent misses on the same key both compute.
func (p *Planner) Resolve(ctx context.Context, req Request) Result {
	if req.Start == req.Goal {
		return Result{Path: []Coordinate{req.Start}, Outcome: OutcomeTrivial}
	}

	finder := req.Finder
	if finder != nil {
		if req.Heuristic == nil {
			req.Heuristic = finder.Heuristic()
		}
		req.Algorithm = finder.Algorithm()
		req.Flying = finder.Flying()
		req.Overflow = finder.Overflow()
	}
	req.Heuristic = orDefault(req.Heuristic)
	if req.Overflow <= 0 {
		req.Overflow = p.overflow
	}

	key := req.Fingerprint()
	if path, ok := p.cache.Get(key); ok {
		return Result{Path: path, Outcome: cachedOutcome(path), Cached: true, Key: key}
	}

	if finder == nil {
		finder = NewFinder(req.Heuristic,
			WithAlgorithm(req.Algorithm),
			WithFlying(req.Flying),
			WithOverflow(req.Overflow),
		)
		defer finder.Close()
	}

	grid := req.Grid
	if grid == nil {
		grid = NewFieldWithLimits(req.Cells, req.Limits)
	}

	path, outcome := finder.route(ctx, req.Heuristic, grid, req.Start, req.Goal, req.AllDirections)
	if path == nil {
		path = []Coordinate{}
	}
	if outcome.Cacheable() {
		p.cache.Put(key, path)
	}
	return Result{Path: copyPath(path), Outcome: outcome, Key: key}
}

// cachedOutcome recovers what can be known about a stored path
func cachedOutcome(path []Coordinate) Outcome {
	if len(path) == 0 {
		return OutcomeNoPath
	}
	return OutcomeFound
}

// Find is the canonical query: cells are indexed as cells[y][x], limits lists
// the blocked values (nil blocks every non-zero value) and a nil heuristic
// means Manhattan. The returned slice is never nil and is owned by the caller.
func (p *Planner) Find(h Heuristic, cells [][]int, limits []int, sx, sy, gx, gy int, allDirections bool) []Coordinate {
	return p.Resolve(context.Background(), Request{
		Heuristic:     h,
		Cells:         cells,
		Limits:        limits,
		Start:         Coordinate{X: sx, Y: sy},
		Goal:          Coordinate{X: gx, Y: gy},
		AllDirections: allDirections,
		Algorithm:     AStar,
	}).Path
}

// FindBetween is Find with coordinate endpoints
func (p *Planner) FindBetween(h Heuristic, cells [][]int, limits []int, start, goal Coordinate, allDirections bool) []Coordinate {
	return p.Find(h, cells, limits, start.X, start.Y, goal.X, goal.Y, allDirections)
}

// FindOnGrid is Find without limits
func (p *Planner) FindOnGrid(h Heuristic, cells [][]int, sx, sy, gx, gy int, allDirections bool) []Coordinate {
	return p.Find(h, cells, nil, sx, sy, gx, gy, allDirections)
}

// FindOnField searches s directly, fingerprinting its cells and limits
func (p *Planner) FindOnField(h Heuristic, s Surface, sx, sy, gx, gy int, allDirections bool) []Coordinate {
	return p.Resolve(context.Background(), surfaceRequest(h, s, Coordinate{X: sx, Y: sy}, Coordinate{X: gx, Y: gy}, allDirections)).Path
}

// FindFieldBetween is FindOnField with coordinate endpoints
func (p *Planner) FindFieldBetween(h Heuristic, s Surface, start, goal Coordinate, allDirections bool) []Coordinate {
	return p.FindOnField(h, s, start.X, start.Y, goal.X, goal.Y, allDirections)
}

func surfaceRequest(h Heuristic, s Surface, start, goal Coordinate, allDirections bool) Request {
	req := Request{
		Heuristic:     h,
		Start:         start,
		Goal:          goal,
		AllDirections: allDirections,
		Algorithm:     AStar,
		Grid:          s,
	}
	if field, ok := s.(*Field); ok {
		req.Cells = field.rawCells()
		req.Limits = field.rawLimits()
	} else {
		req.Cells = s.Cells()
		req.Limits = s.Limits()
	}
	return req
}

// Find runs Planner.Find on the Default planner
func Find(h Heuristic, cells [][]int, limits []int, sx, sy, gx, gy int, allDirections bool) []Coordinate {
	return Default().Find(h, cells, limits, sx, sy, gx, gy, allDirections)
}

// FindBetween runs Planner.FindBetween on the Default planner
func FindBetween(h Heuristic, cells [][]int, limits []int, start, goal Coordinate, allDirections bool) []Coordinate {
	return Default().FindBetween(h, cells, limits, start, goal, allDirections)
}

// FindOnGrid runs Planner.FindOnGrid on the Default planner
func FindOnGrid(h Heuristic, cells [][]int, sx, sy, gx, gy int, allDirections bool) []Coordinate {
	return Default().FindOnGrid(h, cells, sx, sy, gx, gy, allDirections)
}

// FindOnField runs Planner.FindOnField on the Default planner
func FindOnField(h Heuristic, s Surface, sx, sy, gx, gy int, allDirections bool) []Coordinate {
	return Default().FindOnField(h, s, sx, sy, gx, gy, allDirections)
}
