package handler

import "net/http"

var endpoints = []string{
	"GET /health - Health check (no auth)",
	"GET /positions - All positions",
	"GET /positions/vehicle?plate=XX - Filter by plate",
	"GET /positions/vehicle?number=001 - Filter by number",
	"GET /positions/moving - Moving vehicles only",
	"GET /positions/stopped - Stopped vehicles only",
	"GET /positions/ws - Live snapshot stream (websocket)",
	"GET /stats - Service statistics",
}

// NotFound lists the available endpoints so the API documents itself.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, envelope{
		"error":     "Not found",
		"endpoints": endpoints,
	}, nil)
}
