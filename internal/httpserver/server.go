// internal/httpserver/server.go
//
// HTTP view for a single local game session.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Round endpoints: POST /round/new, POST /round/guess, GET /round.
//   - Stats endpoints: GET /stats, POST /stats/reset.
//   - Word endpoints: POST /words (custom words), GET /debug/words.
//
// Notes:
//   - The engine is single-threaded; every handler that touches it holds mu,
//     so requests are applied one at a time like events from a UI loop.
//   - A rejected guess is a normal 200 response with accepted=false.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/robalobadob/decryption/internal/game"
	"github.com/robalobadob/decryption/internal/ledger"
	"github.com/robalobadob/decryption/internal/words"
)

// Server bundles router, engine, ledger and catalog.
type Server struct {
	r      *chi.Mux
	log    zerolog.Logger
	origin string

	mu      sync.Mutex // guards everything below
	engine  *game.Engine
	ledger  *ledger.Ledger
	catalog *words.Catalog
	last    game.Snapshot // last snapshot pushed by the engine
}

// New constructs a Server, subscribes to engine updates, installs
// middleware, and registers routes. origin is the single CORS origin.
func New(engine *game.Engine, led *ledger.Ledger, catalog *words.Catalog, origin string, logger zerolog.Logger) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		log:     logger.With().Str("component", "http").Logger(),
		origin:  origin,
		engine:  engine,
		ledger:  led,
		catalog: catalog,
		last:    engine.Snapshot(),
	}
	engine.SetObserver(func(snap game.Snapshot) { s.last = snap })

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // single-origin CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"decryption","endpoints":["/health","POST /round/new","POST /round/guess","GET /round","GET /stats"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Route("/round", func(r chi.Router) {
		r.Get("/", s.handleRound)
		r.Post("/new", s.handleNewRound)
		r.Post("/guess", s.handleGuess)
	})
	s.r.Get("/stats", s.handleStats)
	s.r.Post("/stats/reset", s.handleResetStats)
	s.r.Post("/words", s.handleAddWords)
	s.r.Get("/debug/words", s.handleWordStats)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors allows the configured browser origin to drive the session.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ ROUND --------------------------------------

// handleRound returns the latest snapshot.
func (s *Server) handleRound(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.last
	s.mu.Unlock()
	writeJSON(w, snap)
}

// handleNewRound starts a fresh round and returns its snapshot.
func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.engine.StartRound()
	s.mu.Unlock()
	writeJSON(w, snap)
}

type guessReq struct {
	Word string `json:"word"`
}

type guessRes struct {
	Result game.Result   `json:"result"`
	Round  game.Snapshot `json:"round"`
}

// handleGuess submits the selected word and returns the result together
// with the updated round.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	s.mu.Lock()
	res := s.engine.SubmitGuess(r.Context(), req.Word)
	snap := s.last
	s.mu.Unlock()

	writeJSON(w, guessRes{Result: res, Round: snap})
}

// ------------------------------ STATS --------------------------------------

// handleStats returns the lifetime ledger.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st := s.ledger.Stats()
	s.mu.Unlock()
	writeJSON(w, st)
}

// handleResetStats zeroes the ledger.
func (s *Server) handleResetStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.ledger.Reset(r.Context())
	st := s.ledger.Stats()
	s.mu.Unlock()
	if err != nil {
		s.log.Error().Err(err).Msg("reset ledger")
		writeError(w, http.StatusInternalServerError, "persist_failed")
		return
	}
	writeJSON(w, st)
}

// ------------------------------ WORDS --------------------------------------

type addWordsReq struct {
	Words []string `json:"words"`
}

// handleAddWords adds custom words to the catalog for future rounds.
func (s *Server) handleAddWords(w http.ResponseWriter, r *http.Request) {
	var req addWordsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.mu.Lock()
	added := s.catalog.AddCustomWords(req.Words)
	total := s.catalog.Size()
	s.mu.Unlock()
	writeJSON(w, map[string]int{"added": added, "words": total})
}

// handleWordStats reports words per length.
func (s *Server) handleWordStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st := s.catalog.Stats()
	s.mu.Unlock()
	writeJSON(w, st)
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
