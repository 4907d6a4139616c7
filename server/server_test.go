package server

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"ismcts/config"
	"ismcts/game"
)

func dial(t *testing.T, cfg config.Play) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(New(cfg))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func roundTrip(t *testing.T, c *websocket.Conn, req Request) Reply {
	t.Helper()
	require.NoError(t, c.WriteJSON(req))
	return read(t, c)
}

func read(t *testing.T, c *websocket.Conn) Reply {
	t.Helper()
	var reply Reply
	require.NoError(t, c.ReadJSON(&reply))
	return reply
}

func tictactoe(human game.Player) config.Play {
	return config.Play{Game: "tictactoe", Human: human, Iterations: 100, Seed: 9}
}

func TestServer(t *testing.T) {
	t.Run("greets with a fresh game", func(t *testing.T) {
		c := dial(t, tictactoe(1))
		reply := read(t, c)
		require.Empty(t, reply.Error)
		require.Equal(t, "tictactoe", reply.Game)
		require.Equal(t, 1, reply.You)
		require.Equal(t, 1, reply.ToMove)
		require.Len(t, reply.Moves, 9)
		require.Empty(t, reply.EngineMoves)
	})

	t.Run("engine answers a move", func(t *testing.T) {
		c := dial(t, tictactoe(1))
		read(t, c)

		reply := roundTrip(t, c, Request{Type: "move", Move: "4"})
		require.Empty(t, reply.Error)
		require.Len(t, reply.EngineMoves, 1)
		require.NotEqual(t, "4", reply.EngineMoves[0])
		require.Equal(t, 1, reply.ToMove)
		require.Len(t, reply.Moves, 7)
	})

	t.Run("engine opens when it moves first", func(t *testing.T) {
		c := dial(t, tictactoe(2))
		reply := read(t, c)
		require.Len(t, reply.EngineMoves, 1)
		require.Equal(t, 2, reply.ToMove)
		require.Len(t, reply.Moves, 8)
	})

	t.Run("reports bad moves and keeps going", func(t *testing.T) {
		c := dial(t, tictactoe(1))
		read(t, c)

		reply := roundTrip(t, c, Request{Type: "move", Move: "nine"})
		require.Contains(t, reply.Error, "cannot parse move")
		require.Len(t, reply.Moves, 9)

		reply = roundTrip(t, c, Request{Type: "jump"})
		require.Contains(t, reply.Error, "unknown message type")

		reply = roundTrip(t, c, Request{Type: "move", Move: "0"})
		require.Empty(t, reply.Error)
	})

	t.Run("new game", func(t *testing.T) {
		c := dial(t, tictactoe(1))
		read(t, c)
		roundTrip(t, c, Request{Type: "move", Move: "0"})

		reply := roundTrip(t, c, Request{Type: "new"})
		require.Empty(t, reply.Error)
		require.Len(t, reply.Moves, 9)
		require.Equal(t, "...\n...\n...\n", reply.View)
	})

	t.Run("plays durak to the end", func(t *testing.T) {
		c := dial(t, config.Play{Game: "durak", Human: 1, Iterations: 30, Seed: 4})
		reply := read(t, c)
		require.Contains(t, reply.View, "player 1 (you)")
		for steps := 0; !reply.Over; steps++ {
			require.Less(t, steps, 1000)
			require.Empty(t, reply.Error)
			require.NotEmpty(t, reply.Moves)
			reply = roundTrip(t, c, Request{Type: "move", Move: reply.Moves[len(reply.Moves)-1]})
		}
		require.NotEmpty(t, reply.Outcome)
		require.Empty(t, reply.Moves)
	})

	t.Run("invalid config", func(t *testing.T) {
		c := dial(t, config.Play{Game: "chess", Human: 1, Iterations: 1})
		reply := read(t, c)
		require.Contains(t, reply.Error, "unknown game")
		reply = roundTrip(t, c, Request{Type: "move", Move: "0"})
		require.Equal(t, "no game in progress", reply.Error)
	})
}
