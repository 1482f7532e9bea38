package http

import (
	"net/http"

	"deal-desk/domain"
	"deal-desk/repository"
	"deal-desk/service"
)

// DealerHandler maintains the collaborator data the engine reads: dealer
// settings and lender catalogs.
type DealerHandler struct {
	settings repository.SettingsRepository
	lenders  repository.LenderRepository
}

func NewDealerHandler(settings repository.SettingsRepository, lenders repository.LenderRepository) *DealerHandler {
	return &DealerHandler{settings: settings, lenders: lenders}
}

// GetSettings handles GET /dealers/{dealer}/settings.
func (h *DealerHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.PathValue("dealer"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// PutSettings handles PUT /dealers/{dealer}/settings.
func (h *DealerHandler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.DealerSettings
	if err := decodeJSON(w, r, &settings); err != nil {
		writeDecodeError(w, err)
		return
	}
	settings.DealerID = r.PathValue("dealer")

	if err := service.ValidateDealerSettings(settings); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.settings.Put(settings); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// GetLenders handles GET /dealers/{dealer}/lenders.
func (h *DealerHandler) GetLenders(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.lenders.List(r.PathValue("dealer"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

// PutLenders handles PUT /dealers/{dealer}/lenders. The whole catalog is
// replaced; tier order in the body is the lender's priority order.
func (h *DealerHandler) PutLenders(w http.ResponseWriter, r *http.Request) {
	var profiles []domain.LenderProfile
	if err := decodeJSON(w, r, &profiles); err != nil {
		writeDecodeError(w, err)
		return
	}
	if profiles == nil {
		profiles = []domain.LenderProfile{}
	}

	for _, p := range profiles {
		if err := service.ValidateLenderProfile(p); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if err := h.lenders.Put(r.PathValue("dealer"), profiles); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}
