// Package httpapi wires the front-facing HTTP surface: health, metrics,
// room creation, and the WebSocket upgrade that hands a connection off to
// a new PlayerSession.
package httpapi

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scythe504/wordwave/internal/directory"
	"github.com/scythe504/wordwave/internal/domain"
	"github.com/scythe504/wordwave/internal/session"
	"github.com/scythe504/wordwave/internal/wire"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server holds everything an HTTP handler needs: the Directory handle and
// whether permissive CORS is enabled.
type Server struct {
	Directory directory.Handle
	AllowCORS bool
}

// Routes builds the full router: health, metrics, room creation, and the
// WebSocket upgrade endpoint.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.corsMiddleware)

	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/game", s.createGameHandler).Methods(http.MethodPost)
	r.HandleFunc("/game/{gameId}/player/{nickname}/ws", s.wsHandler).Methods(http.MethodGet)

	return r
}

// corsMiddleware mirrors the teacher's permissive-wildcard-or-nothing
// CORS middleware, keyed off the allow-cors config flag instead of always
// being on.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.AllowCORS {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("healthy"))
}

func (s *Server) createGameHandler(w http.ResponseWriter, r *http.Request) {
	result := s.Directory.CreateGame()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"id": result.ID}); err != nil {
		log.Printf("[HTTPAPI] failed to encode CreateGame response: %v", err)
	}
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := vars["gameId"]
	nickname := vars["nickname"]

	result := s.Directory.GetGameActor(gameID)
	if result.Err != nil {
		s.rejectWithDomainError(w, r, result.Err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HTTPAPI] upgrade failed for game=%s nickname=%s: %v", gameID, nickname, err)
		return
	}

	sess := session.New(conn, result.Room, nickname)
	go sess.Run()
}

// rejectWithDomainError upgrades the connection anyway just long enough to
// deliver a single Error frame before closing, per spec §6: "On failure to
// resolve room: close after a single Error frame with type
// GAME_DOES_NOT_EXIST."
func (s *Server) rejectWithDomainError(w http.ResponseWriter, r *http.Request, cause error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HTTPAPI] upgrade failed while rejecting: %v", err)
		return
	}
	defer conn.Close()

	domainErr, ok := cause.(*domain.Error)
	if !ok {
		domainErr = domain.NewError(domain.ErrGameDoesNotExist, cause.Error())
	}
	frame := wire.NewErrorFrame(domainErr.Type, domainErr.Detail)
	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("[HTTPAPI] failed to marshal rejection frame: %v", err)
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, data)
}
