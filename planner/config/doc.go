// Package config loads and caches road maps for the route service.
//
// Maps are JSON files in the maps directory, one map per file. The file name
// without its extension is the map ID used by queries and sessions. Every map
// is validated with atlas.ValidateMapConfig before it is cached.
//
// The default map is classic.json when present, otherwise the first valid map
// in the directory, otherwise the built-in atlas.DefaultMap under the ID
// "default".
//
// Usage:
//
//	manager, err := config.NewManager("maps")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	roadMap, err := manager.LoadMap("maze")
//	maps, err := manager.ListMaps()
package config
