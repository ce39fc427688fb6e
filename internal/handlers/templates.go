package handlers

import (
	"net/http"

	"cardly/internal/design"
)

type templatesResponse struct {
	Version   int               `json:"version"`
	Default   string            `json:"default"`
	Templates []design.Template `json:"templates"`
}

// Templates lists the catalogue for the design picker.
func Templates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, templatesResponse{
		Version:   templateCatalog.Version(),
		Default:   defaultTemplate(),
		Templates: templateCatalog.Options(),
	})
}
