package http

import (
	"bytes"
	"log/slog"
	"net/http"

	"deal-desk/domain"
	"deal-desk/render"
	"deal-desk/service"
)

type dealRequest struct {
	Deal     domain.DealRecord     `json:"deal"`
	Customer domain.CustomerRecord `json:"customer"`
	Terms    []int                 `json:"terms,omitempty"`
}

type DealHandler struct {
	service *service.DealService
	sheet   *render.DealSheet
}

func NewDealHandler(service *service.DealService, sheet *render.DealSheet) *DealHandler {
	return &DealHandler{service: service, sheet: sheet}
}

// Quote handles POST /deals/quote.
func (h *DealHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req dealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	quote, err := h.service.Quote(r.Header.Get(DealerHeader), req.Deal, req.Customer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// Save handles POST /deals.
func (h *DealHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req dealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	snapshot, err := h.service.Save(r.Header.Get(DealerHeader), req.Deal, req.Customer)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/deals/"+snapshot.ID)
	writeJSON(w, http.StatusCreated, snapshot)
}

// PaymentGrid handles POST /deals/payment-grid.
func (h *DealHandler) PaymentGrid(w http.ResponseWriter, r *http.Request) {
	var req dealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	grid, err := h.service.PaymentGrid(r.Header.Get(DealerHeader), req.Deal, req.Customer, req.Terms)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, grid)
}

// Get handles GET /deals/{id}.
func (h *DealHandler) Get(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Snapshot(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// History handles GET /deals for the dealer in the header.
func (h *DealHandler) History(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.service.History(r.Header.Get(DealerHeader))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshots)
}

// Recalculate handles GET /deals/{id}/recalculate.
func (h *DealHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Recalculate(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Sheet handles GET /deals/{id}/sheet.pdf.
func (h *DealHandler) Sheet(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Snapshot(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.sheet.Render(&buf, snapshot); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="deal-`+snapshot.ID+`.pdf"`)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("failed to write deal sheet", "snapshot_id", snapshot.ID, "error", err)
	}
}
