package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"trading-journal-go/internal/analytics"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/ledger"
	"trading-journal-go/internal/models"
	"trading-journal-go/internal/psychology"
)

const maxUploadBytes = 10 << 20

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log     *zap.Logger
	session *journal.Session
	now     func() time.Time
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, session *journal.Session) *APIHandler {
	return &APIHandler{log: log.Named("api"), session: session, now: time.Now}
}

// NewRouter wires every endpoint of the dashboard.
func NewRouter(h *APIHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/trades", h.ListTradesHandler).Methods(http.MethodGet)
	api.HandleFunc("/trades", h.CreateTradeHandler).Methods(http.MethodPost)
	api.HandleFunc("/trades/{id}", h.GetTradeHandler).Methods(http.MethodGet)
	api.HandleFunc("/trades/{id}", h.UpdateTradeHandler).Methods(http.MethodPut)
	api.HandleFunc("/trades/{id}", h.DeleteTradeHandler).Methods(http.MethodDelete)
	api.HandleFunc("/trades/{id}/images", h.AttachImageHandler).Methods(http.MethodPost)

	api.HandleFunc("/stats", h.StatsHandler).Methods(http.MethodGet)
	api.HandleFunc("/psychology", h.PsychologyHandler).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", h.DashboardHandler).Methods(http.MethodGet)

	api.HandleFunc("/ledger", h.LedgerHandler).Methods(http.MethodGet)
	api.HandleFunc("/payouts/quote", h.QuotePayoutHandler).Methods(http.MethodGet)
	api.HandleFunc("/payouts", h.CreatePayoutHandler).Methods(http.MethodPost)
	api.HandleFunc("/payouts/{id}", h.DeletePayoutHandler).Methods(http.MethodDelete)

	api.HandleFunc("/activity", h.ActivityHandler).Methods(http.MethodGet)
	return r
}

// ListTradesHandler returns the trade list, optionally filtered by ?date= or ?month=.
func (h *APIHandler) ListTradesHandler(w http.ResponseWriter, r *http.Request) {
	trades := h.session.Trades()
	if date := r.URL.Query().Get("date"); date != "" {
		trades = analytics.FilterDay(trades, date)
	} else if month := r.URL.Query().Get("month"); month != "" {
		trades = analytics.FilterMonth(trades, month)
	}
	respondJSON(w, http.StatusOK, trades)
}

// GetTradeHandler returns a single trade.
func (h *APIHandler) GetTradeHandler(w http.ResponseWriter, r *http.Request) {
	trade, err := h.session.Trade(mux.Vars(r)["id"])
	if err != nil {
		h.respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, trade)
}

// CreateTradeHandler adds a trade. Any id in the body is replaced.
func (h *APIHandler) CreateTradeHandler(w http.ResponseWriter, r *http.Request) {
	trade, ok := decodeTrade(w, r)
	if !ok {
		return
	}
	added, err := h.session.AddTrade(r.Context(), trade)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, added)
}

// UpdateTradeHandler replaces the trade named in the path.
func (h *APIHandler) UpdateTradeHandler(w http.ResponseWriter, r *http.Request) {
	trade, ok := decodeTrade(w, r)
	if !ok {
		return
	}
	trade.ID = mux.Vars(r)["id"]
	updated, err := h.session.UpdateTrade(r.Context(), trade)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteTradeHandler removes a trade.
func (h *APIHandler) DeleteTradeHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.session.DeleteTrade(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AttachImageHandler uploads the raw request body and links it to the trade.
func (h *APIHandler) AttachImageHandler(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		respondError(w, http.StatusBadRequest, "filename is required")
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	url, err := h.session.AttachImage(r.Context(), mux.Vars(r)["id"], filename, body)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// StatsHandler returns the aggregation dashboard. ?today= overrides the reference date.
func (h *APIHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	today, ok := h.today(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, analytics.BuildDashboard(h.session.Trades(), today))
}

// PsychologyResponse is the structure for the /api/psychology endpoint.
type PsychologyResponse struct {
	Breakdown psychology.Breakdown      `json:"breakdown"`
	FearGreed psychology.FearGreedIndex `json:"fear_greed"`
	History   []psychology.HistoryPoint `json:"history"`
}

// PsychologyHandler returns the emotion breakdown and the sentiment index.
func (h *APIHandler) PsychologyHandler(w http.ResponseWriter, r *http.Request) {
	trades := h.session.Trades()
	respondJSON(w, http.StatusOK, PsychologyResponse{
		Breakdown: psychology.Analyze(trades),
		FearGreed: psychology.FearGreed(trades),
		History:   psychology.FearGreedHistory(trades),
	})
}

// DashboardHandler returns every derived view in one response.
func (h *APIHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	today, ok := h.today(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.session.Dashboard(today))
}

// LedgerResponse is the structure for the /api/ledger endpoint.
type LedgerResponse struct {
	Summary ledger.Summary        `json:"summary"`
	Payouts []models.PayoutRecord `json:"payouts"`
}

// LedgerHandler returns the balance summary and payout history.
func (h *APIHandler) LedgerHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, LedgerResponse{
		Summary: h.session.Ledger(),
		Payouts: h.session.Payouts(),
	})
}

// QuotePayoutHandler validates ?amount= without recording anything.
func (h *APIHandler) QuotePayoutHandler(w http.ResponseWriter, r *http.Request) {
	quote, err := h.session.QuotePayout(r.URL.Query().Get("amount"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// PayoutResponse is the structure returned by a successful payout.
type PayoutResponse struct {
	Payout models.PayoutRecord `json:"payout"`
	Quote  ledger.Quote        `json:"quote"`
}

// CreatePayoutHandler records a withdrawal. The amount is sent as entered.
func (h *APIHandler) CreatePayoutHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount json.RawMessage `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, quote, err := h.session.SubmitPayout(r.Context(), amountText(req.Amount))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, PayoutResponse{Payout: record, Quote: quote})
}

// DeletePayoutHandler removes a payout. Requires ?confirm=true.
func (h *APIHandler) DeletePayoutHandler(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if err := h.session.RemovePayout(r.Context(), mux.Vars(r)["id"], confirmed); err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ActivityHandler returns the activity feed, newest first.
func (h *APIHandler) ActivityHandler(w http.ResponseWriter, r *http.Request) {
	logs := h.session.Activity()
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	respondJSON(w, http.StatusOK, logs)
}

// HealthHandler reports liveness.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *APIHandler) today(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("today")
	if raw == "" {
		return h.now(), true
	}
	today, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "today must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return today, true
}

// respondErr maps domain errors onto status codes.
func (h *APIHandler) respondErr(w http.ResponseWriter, err error) {
	var limitErr *ledger.LimitError
	switch {
	case errors.Is(err, journal.ErrTradeNotFound), errors.Is(err, ledger.ErrPayoutNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &limitErr),
		errors.Is(err, models.ErrInvalidTrade),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrNonPositiveAmount),
		errors.Is(err, journal.ErrNotConfirmed):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, journal.ErrNoRemote):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.log.Error("Request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeTrade(w http.ResponseWriter, r *http.Request) (models.Trade, bool) {
	var trade models.Trade
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&trade); err != nil {
		respondError(w, http.StatusBadRequest, "invalid trade: "+err.Error())
		return models.Trade{}, false
	}
	return trade, true
}

// amountText accepts the amount as a JSON string or number.
func amountText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
