// Package session provides planner session management for the road route service.
//
// A session binds one road map to one long-lived search engine
// (pathfind.Finder). Every route computed in the session reuses that engine,
// so a running search can be stopped from another request through
// Finder.Stop.
//
// Session Identifiers:
//
// Sessions use 4-character hexadecimal IDs unless the caller supplies one.
// Lookups are case-insensitive and IDs may not contain path separators or
// dots, because file persistence uses the ID as a file name.
//
// Persistence:
//
// FilePersistence stores each session as a JSON document holding its map ID,
// engine settings and route history. Loading a session rebuilds the engine
// from the stored settings.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", "classic", mapConfig, settings)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
package session
