package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"ismcts/config"
	"ismcts/play"
)

// Request is a message from the client: {"type":"move","move":"A 6S"} or
// {"type":"new"}.
type Request struct {
	Type string `json:"type"`
	Move string `json:"move,omitempty"`
}

// Reply describes the game after a request was handled.
type Reply struct {
	Game        string   `json:"game"`
	View        string   `json:"view"`
	ToMove      int      `json:"to_move"`
	You         int      `json:"you"`
	EngineMoves []string `json:"engine_moves,omitempty"`
	Moves       []string `json:"moves"`
	Over        bool     `json:"over"`
	Outcome     string   `json:"outcome,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Server plays one session per websocket connection on /ws.
type Server struct {
	cfg      config.Play
	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

func New(cfg config.Play) *Server {
	s := &Server{cfg: cfg, mux: http.NewServeMux()}
	s.mux.HandleFunc("/ws", s.serveWS)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	log.Info().Msgf("serving %s on %s", s.cfg.Game, addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server failed")
	}
	return nil
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("upgrade failed")
		return
	}
	defer c.Close()

	session, reply := s.start()
	if err := c.WriteJSON(reply); err != nil {
		log.Warn().Err(err).Msg("write failed")
		return
	}

	for {
		var req Request
		if err := c.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Msg("read failed")
			}
			return
		}

		switch req.Type {
		case "new":
			session, reply = s.start()
		case "move":
			reply = handleMove(session, req.Move)
		default:
			reply = describe(session, nil, errors.Errorf("unknown message type %q", req.Type))
		}
		if err := c.WriteJSON(reply); err != nil {
			log.Warn().Err(err).Msg("write failed")
			return
		}
	}
}

// start deals a new session and lets the engine open when it moves first.
func (s *Server) start() (play.Session, Reply) {
	session, err := play.New(s.cfg)
	if err != nil {
		return nil, Reply{Error: err.Error()}
	}
	return session, respond(session)
}

func handleMove(session play.Session, text string) Reply {
	if session == nil {
		return Reply{Error: "no game in progress"}
	}
	if err := session.Play(text); err != nil {
		return describe(session, nil, err)
	}
	return respond(session)
}

// respond lets the engine move until the human is to move again.
func respond(session play.Session) Reply {
	var moves []string
	for !session.Over() && session.ToMove() != session.Human() {
		move, err := session.Respond()
		if err != nil {
			return describe(session, moves, err)
		}
		moves = append(moves, move)
	}
	return describe(session, moves, nil)
}

func describe(session play.Session, engineMoves []string, err error) Reply {
	if session == nil {
		return Reply{Error: "no game in progress"}
	}
	reply := Reply{
		Game:        session.Game(),
		View:        session.View(),
		ToMove:      int(session.ToMove()),
		You:         int(session.Human()),
		EngineMoves: engineMoves,
		Moves:       session.Moves(),
		Over:        session.Over(),
		Outcome:     session.Outcome(),
	}
	if err != nil {
		reply.Error = err.Error()
	}
	return reply
}
