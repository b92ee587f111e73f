package network

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"horde/logger"
	"horde/protocol"
	"horde/room"
	"horde/version"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients are served from anywhere during playtests.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server is the HTTP front: the websocket endpoint plus health and version.
type Server struct {
	manager *room.Manager
	mux     *http.ServeMux
}

func NewServer(m *room.Manager) *Server {
	s := &Server{manager: m, mux: http.NewServeMux()}
	s.mux.HandleFunc("/ws", enableCORS(s.handleWS))
	s.mux.HandleFunc("/health", enableCORS(s.handleHealth))
	s.mux.HandleFunc("/version", enableCORS(s.handleVersion))
	return s
}

// Handle mounts an extra handler, e.g. the admin RPC service.
func (s *Server) Handle(pattern string, h http.Handler) {
	s.mux.Handle(pattern, h)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next(w, r)
	}
}

// handleWS upgrades and starts the pumps. ?codec=msgpack switches the
// connection to binary frames.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	codec := protocol.CodecByName(r.URL.Query().Get("codec"))
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("Upgrade error")
		return
	}

	client := NewClient(uuid.NewString(), conn, codec, s.manager)
	client.log.WithField("codec", codec.Name()).Debug("Client connected")

	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(version.Info())
}
