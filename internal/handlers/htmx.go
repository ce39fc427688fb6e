package handlers

import "net/http"

const (
	hxRequestHeader = "HX-Request"
	hxBoostedHeader = "HX-Boosted"
	hxTriggerHeader = "HX-Trigger"

	eventDesignUpdated      = "design-updated"
	eventPreferencesUpdated = "preferences-updated"
)

// isHTMX reports whether r came from htmx, either as a swap or a boosted link.
func isHTMX(r *http.Request) bool {
	return r.Header.Get(hxRequestHeader) == "true" || r.Header.Get(hxBoostedHeader) == "true"
}

// announce asks htmx to fire event on the client once the response is
// swapped, so previews on the dashboard can refresh. Must run before the
// body is written.
func announce(w http.ResponseWriter, r *http.Request, event string) {
	if isHTMX(r) {
		w.Header().Set(hxTriggerHeader, event)
	}
}
