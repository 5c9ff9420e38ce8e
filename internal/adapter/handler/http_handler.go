package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rl1809/stock-catalog/internal/core/domain"
	"github.com/rl1809/stock-catalog/internal/core/service"
	"github.com/rl1809/stock-catalog/internal/port"
)

const maxBodyBytes = 8 << 20

type HTTPHandler struct {
	catalog *service.CatalogService
}

type ReceiveHTTPRequest struct {
	RequestID string `json:"request_id"`
	Quantity  int    `json:"quantity"`
}

type ReceiveHTTPResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Quantity int    `json:"quantity,omitempty"`
}

type RecordHTTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	SKU     string `json:"sku,omitempty"`
	Record  string `json:"record,omitempty"`
}

func NewHTTPHandler(catalog *service.CatalogService) *HTTPHandler {
	return &HTTPHandler{catalog: catalog}
}

// Register mounts the catalog routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("POST /api/records", h.CreateRecord)
	mux.HandleFunc("GET /api/records/{sku}", h.GetRecord)
	mux.HandleFunc("POST /api/records/{sku}/receive", h.Receive)
	mux.HandleFunc("POST /api/import", h.Import)
	mux.HandleFunc("GET /api/export", h.Export)
	mux.HandleFunc("GET /api/report", h.Report)
}

// CreateRecord registers a record from a labelled entry in the request body.
func (h *HTTPHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")
	if len(kind) != 1 {
		writeJSON(w, http.StatusBadRequest, RecordHTTPResponse{Message: "type must be N or P"})
		return
	}

	item, err := h.catalog.Register(r.Context(), kind[0], http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		status := http.StatusInternalServerError
		message := "internal error"

		var entryErr domain.EntryError
		var dateErr domain.DateError
		switch {
		case errors.Is(err, domain.ErrUnknownType):
			status = http.StatusBadRequest
			message = "type must be N or P"
		case errors.Is(err, port.ErrRecordExists):
			status = http.StatusConflict
			message = "sku already exists"
		case errors.As(err, &entryErr), errors.As(err, &dateErr):
			status = http.StatusUnprocessableEntity
			message = err.Error()
			if item != nil && item.Message() != "" {
				message = item.Message()
			}
		case errors.Is(err, domain.ErrInvalidProduct):
			status = http.StatusUnprocessableEntity
			message = err.Error()
		}

		writeJSON(w, status, RecordHTTPResponse{Message: message})
		return
	}

	line, err := domain.MarshalRecord(item)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, RecordHTTPResponse{Message: "internal error"})
		return
	}
	writeJSON(w, http.StatusCreated, RecordHTTPResponse{
		Success: true,
		SKU:     item.SKU(),
		Record:  line,
	})
}

// GetRecord renders one record as a tabular row, a verbose block or its
// machine record line.
func (h *HTTPHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")

	var buf bytes.Buffer
	var err error
	switch format := r.URL.Query().Get("format"); format {
	case "", "tabular":
		err = h.catalog.Render(r.Context(), sku, &buf, false)
	case "verbose":
		err = h.catalog.Render(r.Context(), sku, &buf, true)
	case "record":
		var item domain.Item
		item, err = h.catalog.Get(r.Context(), sku)
		if err == nil {
			err = item.Store(&buf, false)
		}
	default:
		http.Error(w, "unknown format", http.StatusBadRequest)
		return
	}

	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	buf.WriteByte('\n')
	writeText(w, http.StatusOK, buf.Bytes())
}

func (h *HTTPHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var req ReceiveHTTPRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ReceiveHTTPResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	if req.RequestID == "" || req.Quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, ReceiveHTTPResponse{
			Success: false,
			Message: "missing required fields",
		})
		return
	}

	item, err := h.catalog.Receive(r.Context(), req.RequestID, r.PathValue("sku"), req.Quantity)
	if err != nil {
		status, message := receiveFailure(err)
		writeJSON(w, status, ReceiveHTTPResponse{
			Success: false,
			Message: message,
		})
		return
	}

	writeJSON(w, http.StatusOK, ReceiveHTTPResponse{
		Success:  true,
		Message:  "stock received",
		Quantity: item.Quantity(),
	})
}

func receiveFailure(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrDuplicateRequest):
		return http.StatusConflict, "duplicate request"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "record not found"
	case errors.Is(err, port.ErrOptimisticLock):
		return http.StatusServiceUnavailable, "record busy, retry"
	}
	return http.StatusInternalServerError, "internal error"
}

func (h *HTTPHandler) Import(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalog.Import(r.Context(), http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "import failed"})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *HTTPHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.catalog.Export(r.Context(), &buf); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeText(w, http.StatusOK, buf.Bytes())
}

func (h *HTTPHandler) Report(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.catalog.Report(r.Context(), &buf); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeText(w, http.StatusOK, buf.Bytes())
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeText(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}
