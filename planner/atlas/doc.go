// Package atlas describes the road maps the route planner searches.
//
// The atlas package handles:
//   - The JSON map format (layout rows, legend, blocked tiles, route defaults)
//   - Map validation
//   - Conversion of a layout into a pathfind.Field
//   - Landmark lookup and ASCII rendering of computed routes
//
// Map Format:
//
// A layout is a list of equal-length rows. Each character is looked up in the
// legend (R=road, H=home, P=park, S=supercharger, W=water, B=building by
// default). Tiles listed in "blocked" may not be entered; water and buildings
// are blocked when the list is omitted.
//
// Usage:
//
//	m, err := atlas.LoadMapConfig("maps/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	field := m.Field()
//	kind, _ := m.RouteHeuristic()
//	path := pathfind.NewPlanner().FindOnField(kind, field, 1, 1, 13, 13, m.AllDirections)
//	for _, line := range m.Render(path) {
//		fmt.Println(line)
//	}
package atlas
