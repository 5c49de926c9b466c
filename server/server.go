// Package server exposes a live game over HTTP and a websocket feed of the
// worker's line.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"chess-core/board"
	"chess-core/engine"
	"chess-core/notation"
)

type Server struct {
	router   *mux.Router
	game     *engine.Game
	worker   *engine.Worker
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func New(game *engine.Game, worker *engine.Worker, logger zerolog.Logger) *Server {
	s := &Server{
		router: mux.NewRouter(),
		game:   game,
		worker: worker,
		log:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.router.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/position", s.getPosition).Methods(http.MethodGet)
	api.HandleFunc("/position", s.putPosition).Methods(http.MethodPut)
	api.HandleFunc("/move", s.postMove).Methods(http.MethodPost)
	api.HandleFunc("/line", s.getLine).Methods(http.MethodGet)
	api.HandleFunc("/next", s.postNext).Methods(http.MethodPost)
	s.router.HandleFunc("/ws", s.wsHandler)
	return s
}

// Handler wraps the router with request logging, panic recovery and CORS.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = handlers.CORS(
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPut, http.MethodPost}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	return handlers.LoggingHandler(s.log, h)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type positionResponse struct {
	FEN   string   `json:"fen"`
	Hash  string   `json:"hash"`
	State string   `json:"state"`
	Turn  string   `json:"turn"`
	Moves []string `json:"moves"`
}

type positionRequest struct {
	FEN string `json:"fen"`
}

type moveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

type moveResponse struct {
	Move     string           `json:"move"`
	Position positionResponse `json:"position"`
}

type lineResponse struct {
	Root  string   `json:"root"`
	Ready bool     `json:"ready"`
	Moves []string `json:"moves"`
	SAN   []string `json:"san,omitempty"`
	Score int      `json:"score"`
	Depth int      `json:"depth"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func hashString(h uint64) string { return fmt.Sprintf("%016x", h) }

func (s *Server) position() positionResponse {
	b := s.game.Position()
	return positionResponse{
		FEN:   b.FEN(),
		Hash:  hashString(b.Hash()),
		State: s.game.State().String(),
		Turn:  b.SideToMove().String(),
		Moves: notation.UCI(s.game.History()),
	}
}

// line describes the worker's current line. SAN is only rendered when the
// line belongs to the live position.
func (s *Server) line() lineResponse {
	l := s.worker.Line()
	if l == nil {
		return lineResponse{Moves: []string{}}
	}
	b := s.game.Position()
	resp := lineResponse{
		Root:  hashString(l.Root),
		Ready: l.Root == b.Hash() && !l.Empty(),
		Moves: notation.UCI(l.Moves),
		Score: l.Score,
		Depth: l.Depth,
	}
	if resp.Ready {
		san, err := notation.SAN(b.FEN(), l.Moves)
		if err != nil {
			s.log.Warn().Err(err).Msg("san-render-failed")
		}
		resp.SAN = san
	}
	return resp
}

func (s *Server) getPosition(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.position())
}

func (s *Server) putPosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.game.SetPosition(req.FEN); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.position())
}

func (s *Server) postMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	from, err := board.ParseSquare(req.From)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	to, err := board.ParseSquare(req.To)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	promo, err := board.ParsePromotion(req.Promotion)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	m, err := s.game.RequestMove(from, to, promo)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, moveResponse{Move: m.String(), Position: s.position()})
}

func (s *Server) getLine(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.line())
}

func (s *Server) postNext(w http.ResponseWriter, r *http.Request) {
	m, err := s.game.PlayNext()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, moveResponse{Move: m.String(), Position: s.position()})
}

// wsHandler streams the line as JSON, once on connect and again every time
// the worker publishes.
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket-upgrade-failed")
		return
	}
	defer conn.Close()
	s.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("websocket-connected")

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		changed := s.worker.Changed()
		if err := conn.WriteJSON(s.line()); err != nil {
			s.log.Debug().Err(err).Msg("websocket-write-failed")
			return
		}
		select {
		case <-changed:
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, board.ErrInvalidFEN), errors.Is(err, board.ErrInvalidSquare):
		return http.StatusBadRequest
	case errors.Is(err, board.ErrIllegalMove):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, engine.ErrGameOver):
		return http.StatusGone
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, errors.New("not found: "+strconv.Quote(r.URL.Path)))
}
