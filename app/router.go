package app

import (
	"net/http"
)

// RouteOpts defines handlers for different content types
type RouteOpts struct {
	// JSON handler - called when Accept: application/json or Content-Type: application/json
	JSON http.HandlerFunc
	// HTML handler - called for browser requests (default)
	HTML http.HandlerFunc
}

// Route creates a handler that dispatches based on content type
func Route(opts RouteOpts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if WantsJSON(r) || SendsJSON(r) {
			if opts.JSON != nil {
				opts.JSON(w, r)
				return
			}
			RespondError(w, http.StatusNotAcceptable, "JSON not supported")
			return
		}

		if opts.HTML != nil {
			opts.HTML(w, r)
			return
		}

		// No HTML handler, try JSON
		if opts.JSON != nil {
			opts.JSON(w, r)
			return
		}

		http.Error(w, "No handler available", http.StatusNotImplemented)
	}
}

// Methods rejects requests whose method is not listed.
func Methods(h http.HandlerFunc, methods ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, m := range methods {
			if r.Method == m {
				h(w, r)
				return
			}
		}
		MethodNotAllowed(w, r)
	}
}
