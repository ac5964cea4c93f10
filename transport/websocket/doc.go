// Package websocket streams route events to browser and CLI clients.
//
// Clients connect to /ws with either ?session=<id> to follow a planner
// session, or ?map=<id> to follow stateless queries on a map. The Hub
// implements service.RouteObserver, so every computed route and every stopped
// search is pushed to the matching subscribers as a JSON Message.
//
// Architecture:
//
// A single Hub goroutine owns all client bookkeeping. Publishing never
// blocks the caller: messages wait in a bounded queue and are dropped when it
// is full. A client that cannot keep up with its own send buffer is
// disconnected.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	svc := service.NewRouteService(sessions, maps, service.WithObserver(hub))
package websocket
