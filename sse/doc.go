// Package sse streams events to HTTP clients as Server-Sent Events.
//
// A Hub routes published events to subscribed clients. Each client
// subscribes with a glob pattern over topics ("run:*" or "run:<id>"), and
// Serve holds one HTTP connection open for a client until it goes away or
// the hub stops.
//
// # Usage
//
//	hub := sse.NewHub(log)
//	hub.Start()
//	defer hub.Stop(ctx)
//
//	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
//		sse.Serve(hub, w, r, uuid.NewString(), "run:*")
//	})
//
//	hub.Publish("run:42", ev)
package sse
