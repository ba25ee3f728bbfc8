package api

import (
	"context"
	"encoding/json"
	"github.com/shopspring/decimal"
	"github.com/stxrain/go-stx-rain/business/domain/sim"
	"github.com/stxrain/go-stx-rain/business/pipeline"
	"github.com/stxrain/go-stx-rain/entities"
	"log"
	"net/http"
	"time"
)

type SnapshotProvider interface {
	Snapshot(ctx context.Context) (pipeline.Snapshot, error)
	Frame(ctx context.Context) (sim.Frame, error)
}

type Handler struct {
	sp      SnapshotProvider
	timeout time.Duration
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type TransactionsResponse struct {
	Transactions  []entities.Transaction `json:"transactions"`
	Block         *uint64                `json:"block"`
	Count         uint64                 `json:"count"`
	Volume        decimal.Decimal        `json:"volume"` // STX, exact decimal string
	UniqueSenders uint64                 `json:"uniqueSenders"`
	Error         string                 `json:"error,omitempty"`
}

func NewHandler(sp SnapshotProvider, timeout time.Duration) *Handler {
	return &Handler{sp: sp, timeout: timeout}
}

// NewRouter exposes the handlers and the websocket hub behind CORS.
func NewRouter(h *Handler, hub *Hub) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.GetHealth)
	mux.HandleFunc("/api/transactions", h.GetTransactions)
	mux.HandleFunc("/api/entities", h.GetEntities)
	if hub != nil {
		mux.Handle("/ws", hub)
	}
	return WithCORS(mux)
}

func (h *Handler) GetHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Add("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(HealthResponse{
		Status:    "UP",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("Error encoding response: %v", err)
		http.Error(w, "Error encoding response", 500)
		return
	}
}

func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	snapshot, err := h.sp.Snapshot(ctx)
	if err != nil {
		log.Printf("Error getting snapshot: %v", err)
		http.Error(w, "Error getting snapshot", http.StatusServiceUnavailable)
		return
	}

	recent := snapshot.Recent
	if recent == nil {
		recent = []entities.Transaction{}
	}

	w.Header().Add("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(TransactionsResponse{
		Transactions:  recent,
		Block:         snapshot.BlockHeight,
		Count:         snapshot.Totals.Count,
		Volume:        snapshot.Totals.VolumeStx(),
		UniqueSenders: snapshot.Totals.UniqueSenders,
		Error:         snapshot.LastError,
	})
	if err != nil {
		log.Printf("Error encoding response: %v", err)
		http.Error(w, "Error encoding response", 500)
		return
	}
}

func (h *Handler) GetEntities(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	frame, err := h.sp.Frame(ctx)
	if err != nil {
		log.Printf("Error getting frame: %v", err)
		http.Error(w, "Error getting frame", http.StatusServiceUnavailable)
		return
	}
	if frame.Entities == nil {
		frame.Entities = []sim.Sprite{}
	}

	w.Header().Add("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(frame)
	if err != nil {
		log.Printf("Error encoding response: %v", err)
		http.Error(w, "Error encoding response", 500)
		return
	}
}
