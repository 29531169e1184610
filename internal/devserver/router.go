package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"toolrental-console/internal/domain"
	"toolrental-console/internal/logger"
)

const requestIDHeader = "X-Request-ID"

type errorBody struct {
	Message string `json:"message"`
}

// loanBody is what the console sends for loan mutations
type loanBody struct {
	Client        domain.EntityRef `json:"client"`
	Tool          domain.EntityRef `json:"tool"`
	DeliveryDate  domain.Date      `json:"deliveryDate"`
	ReturnDate    domain.Date      `json:"returnDate"`
	Damaged       bool             `json:"damaged"`
	DailyFineRate decimal.Decimal  `json:"dailyFineRate"`
}

type handler struct {
	store *Store
}

// NewRouter exposes the store over the console's REST contract
func NewRouter(store *Store) *mux.Router {
	h := &handler{store: store}
	r := mux.NewRouter()
	r.Use(requestID, accessLog)

	r.HandleFunc("/tools", h.listTools).Methods(http.MethodGet)
	r.HandleFunc("/tools", h.createTool).Methods(http.MethodPost)
	r.HandleFunc("/tools/{id:[0-9]+}", h.getTool).Methods(http.MethodGet)
	r.HandleFunc("/tools/{id:[0-9]+}", h.updateTool).Methods(http.MethodPut)

	r.HandleFunc("/clients", h.listClients).Methods(http.MethodGet)
	r.HandleFunc("/clients", h.createClient).Methods(http.MethodPost)
	r.HandleFunc("/clients/{id:[0-9]+}", h.getClient).Methods(http.MethodGet)
	r.HandleFunc("/clients/{id:[0-9]+}", h.updateClient).Methods(http.MethodPut)

	r.HandleFunc("/loans", h.listLoans).Methods(http.MethodGet)
	r.HandleFunc("/loans", h.createLoan).Methods(http.MethodPost)
	r.HandleFunc("/loans/overdue-refresh", h.markOverdue).Methods(http.MethodPost)
	r.HandleFunc("/loans/active", h.activeLoans).Methods(http.MethodGet)
	r.HandleFunc("/loans/delayed-clients", h.delayedClients).Methods(http.MethodGet)
	r.HandleFunc("/loans/ranking", h.ranking).Methods(http.MethodGet)
	r.HandleFunc("/loans/{id:[0-9]+}", h.getLoan).Methods(http.MethodGet)
	r.HandleFunc("/loans/{id:[0-9]+}", h.returnLoan).Methods(http.MethodPut)
	r.HandleFunc("/loans/{id:[0-9]+}/pay-fine", h.payFine).Methods(http.MethodPost)

	r.HandleFunc("/kardex", h.listKardex).Methods(http.MethodGet)
	r.HandleFunc("/kardex/{id:[0-9]+}", h.getKardex).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Message: "Recurso no encontrado"})
	})
	return r
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", w.Header().Get(requestIDHeader))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var rej *rejection
	switch {
	case errors.As(err, &rej) && errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Message: rej.msg})
	case errors.As(err, &rej):
		writeJSON(w, http.StatusBadRequest, errorBody{Message: rej.msg})
	default:
		logger.Error("Unexpected dev server error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: "Error interno del servidor"})
	}
}

func pathID(r *http.Request) int64 {
	// the route pattern only admits digits
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func dateRange(r *http.Request) (domain.DateRange, error) {
	q := r.URL.Query()
	rng, err := domain.NewDateRange(q.Get("from"), q.Get("to"))
	if err != nil {
		return domain.DateRange{}, invalid("Rango de fechas inválido: %v", err)
	}
	return rng, nil
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return invalid("Cuerpo de la solicitud inválido: %v", err)
	}
	return nil
}

// Tools

func (h *handler) listTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ListTools())
}

func (h *handler) getTool(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.GetTool(pathID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handler) createTool(w http.ResponseWriter, r *http.Request) {
	var t domain.Tool
	if err := decode(r, &t); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.store.CreateTool(t)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) updateTool(w http.ResponseWriter, r *http.Request) {
	var t domain.Tool
	if err := decode(r, &t); err != nil {
		writeError(w, err)
		return
	}
	t.ID = pathID(r)
	updated, err := h.store.UpdateTool(t)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Clients

func (h *handler) listClients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ListClients())
}

func (h *handler) getClient(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetClient(pathID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handler) createClient(w http.ResponseWriter, r *http.Request) {
	var c domain.Client
	if err := decode(r, &c); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.store.CreateClient(c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) updateClient(w http.ResponseWriter, r *http.Request) {
	var c domain.Client
	if err := decode(r, &c); err != nil {
		writeError(w, err)
		return
	}
	c.ID = pathID(r)
	updated, err := h.store.UpdateClient(c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Loans

func (h *handler) listLoans(w http.ResponseWriter, r *http.Request) {
	rng, err := dateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.store.ListLoans(rng))
}

func (h *handler) getLoan(w http.ResponseWriter, r *http.Request) {
	l, err := h.store.GetLoan(pathID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *handler) createLoan(w http.ResponseWriter, r *http.Request) {
	var body loanBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.store.CreateLoan(domain.Loan{
		Client:        body.Client,
		Tool:          body.Tool,
		DeliveryDate:  body.DeliveryDate,
		ReturnDate:    body.ReturnDate,
		DailyFineRate: body.DailyFineRate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) returnLoan(w http.ResponseWriter, r *http.Request) {
	var body loanBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	returned, err := h.store.ReturnLoan(pathID(r), body.Damaged)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, returned)
}

func (h *handler) payFine(w http.ResponseWriter, r *http.Request) {
	paid, err := h.store.PayFine(pathID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paid)
}

func (h *handler) markOverdue(w http.ResponseWriter, r *http.Request) {
	changed := h.store.MarkOverdueLoans()
	logger.Info("Marked overdue loans", "count", changed)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) activeLoans(w http.ResponseWriter, r *http.Request) {
	rng, err := dateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.store.ActiveLoans(rng))
}

func (h *handler) delayedClients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.DelayedClients())
}

func (h *handler) ranking(w http.ResponseWriter, r *http.Request) {
	rng, err := dateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.store.Ranking(rng))
}

// Kardex

func (h *handler) listKardex(w http.ResponseWriter, r *http.Request) {
	rng, err := dateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}
	f := domain.KardexFilter{Range: rng}
	if raw := r.URL.Query().Get("toolId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, invalid("toolId inválido: %s", raw))
			return
		}
		f.ToolID = &id
	}
	writeJSON(w, http.StatusOK, h.store.Kardex(f))
}

func (h *handler) getKardex(w http.ResponseWriter, r *http.Request) {
	e, err := h.store.KardexEntry(pathID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}
