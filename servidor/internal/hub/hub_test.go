package hub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"Studyio/servidor/internal/game"
	"Studyio/servidor/internal/sessions"
	"Studyio/shared/protocol"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTick = 10 * time.Millisecond

func startHub(t *testing.T, store *sessions.Store) (*Hub, string) {
	t.Helper()
	h := New(game.NewWorld(game.DefaultSpeed), game.NewIDAllocator(), store, testTick)

	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	go h.RunWorld(ctx)

	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return h, "ws" + strings.TrimPrefix(srv.URL, "http")
}

type testConn struct {
	*websocket.Conn
	codec protocol.Codec
}

func dial(t *testing.T, url string, subprotocols ...string) *testConn {
	t.Helper()
	d := websocket.Dialer{Subprotocols: subprotocols, HandshakeTimeout: 2 * time.Second}
	conn, _, err := d.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &testConn{Conn: conn, codec: protocol.CodecFor(conn.Subprotocol())}
}

func (c *testConn) next(t *testing.T) protocol.Message {
	t.Helper()
	c.SetReadDeadline(time.Now().Add(2 * time.Second))
	frame, data, err := c.ReadMessage()
	require.NoError(t, err)
	if c.codec.Binary() {
		require.Equal(t, websocket.BinaryMessage, frame)
	} else {
		require.Equal(t, websocket.TextMessage, frame)
	}
	msg, err := c.codec.Decode(data)
	require.NoError(t, err)
	return msg
}

// until lê mensagens até pred aceitar uma.
func (c *testConn) until(t *testing.T, pred func(protocol.Message) bool) protocol.Message {
	t.Helper()
	for i := 0; i < 200; i++ {
		if msg := c.next(t); pred(msg) {
			return msg
		}
	}
	t.Fatal("mensagem esperada não chegou")
	return nil
}

func (c *testConn) send(t *testing.T, msg protocol.Message) {
	t.Helper()
	data, err := c.codec.Encode(msg)
	require.NoError(t, err)
	frame := websocket.TextMessage
	if c.codec.Binary() {
		frame = websocket.BinaryMessage
	}
	require.NoError(t, c.WriteMessage(frame, data))
}

func welcome(t *testing.T, c *testConn) int {
	t.Helper()
	msg := c.next(t)
	w, ok := msg.(protocol.Welcome)
	require.True(t, ok, "primeira mensagem deveria ser welcome, veio %#v", msg)
	return w.PlayerID
}

func TestWelcomeThenPositions(t *testing.T) {
	_, url := startHub(t, nil)
	c := dial(t, url)
	assert.Equal(t, protocol.SubprotocolJSON, c.codec.Name())

	id := welcome(t, c)
	assert.GreaterOrEqual(t, id, 0)
	assert.Less(t, id, game.MaxPlayerID)

	msg := c.next(t)
	pos, ok := msg.(protocol.Positions)
	require.True(t, ok)
	assert.Equal(t, protocol.Position{X: 100, Y: 100}, pos.Players[id])
}

func TestControlMovesPlayer(t *testing.T) {
	_, url := startHub(t, nil)
	c := dial(t, url)
	id := welcome(t, c)

	c.send(t, protocol.Control{Right: true, Angle: 0.5})
	c.until(t, func(m protocol.Message) bool {
		p, ok := m.(protocol.Positions)
		return ok && p.Players[id].X >= 120 && p.Players[id].Angle == 0.5
	})

	c.send(t, protocol.Control{})
	p := c.until(t, func(m protocol.Message) bool { _, ok := m.(protocol.Positions); return ok }).(protocol.Positions)
	assert.Equal(t, float32(100), p.Players[id].Y)
}

func TestPositionsOnlyOnChange(t *testing.T) {
	_, url := startHub(t, nil)
	c := dial(t, url)
	welcome(t, c)
	_, ok := c.next(t).(protocol.Positions)
	require.True(t, ok)

	// Sem movimento não chega mais nada
	c.SetReadDeadline(time.Now().Add(10 * testTick))
	_, _, err := c.ReadMessage()
	require.Error(t, err)
	var netErr interface{ Timeout() bool }
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestDisconnectBroadcast(t *testing.T) {
	h, url := startHub(t, nil)
	a := dial(t, url)
	idA := welcome(t, a)
	b := dial(t, url, protocol.SubprotocolWire)
	assert.Equal(t, protocol.SubprotocolWire, b.codec.Name())
	idB := welcome(t, b)
	require.NotEqual(t, idA, idB)

	// A vê os dois jogadores
	a.until(t, func(m protocol.Message) bool {
		p, ok := m.(protocol.Positions)
		return ok && len(p.Players) == 2
	})
	assert.Eventually(t, func() bool { return h.ClientCount() == 2 }, 2*time.Second, testTick)

	b.Close()

	msg := a.until(t, func(m protocol.Message) bool { _, ok := m.(protocol.Disconnect); return ok })
	assert.Equal(t, protocol.Disconnect{PlayerID: idB}, msg)
	assert.Eventually(t, func() bool { return h.ClientCount() == 1 }, 2*time.Second, testTick)
	assert.False(t, h.world.Has(idB))
}

func TestInvalidMessagesIgnored(t *testing.T) {
	h, url := startHub(t, nil)
	c := dial(t, url)
	id := welcome(t, c)

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte("{quebrado")))
	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(`{"type":"welcome","player_id":1}`)))
	c.send(t, protocol.Control{Down: true})

	c.until(t, func(m protocol.Message) bool {
		p, ok := m.(protocol.Positions)
		return ok && p.Players[id].Y > 100
	})
	assert.True(t, h.world.Has(id))
}

func TestSessionsRecorded(t *testing.T) {
	store, err := sessions.Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, url := startHub(t, store)
	c := dial(t, url)
	id := welcome(t, c)
	c.Close()

	assert.Eventually(t, func() bool {
		list, err := store.Recent(1)
		return err == nil && len(list) == 1 && list[0].PlayerID == id && list[0].EndedAt != nil
	}, 2*time.Second, testTick)
}

func TestShutdownClosesClients(t *testing.T) {
	h := New(game.NewWorld(0), game.NewIDAllocator(), nil, testTick)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	c := dial(t, "ws"+strings.TrimPrefix(srv.URL, "http"))
	welcome(t, c)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, 2*time.Second, testTick)

	cancel()
	c.SetReadDeadline(time.Now().Add(2 * time.Second))
	var err error
	for err == nil {
		_, _, err = c.ReadMessage()
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		t.Fatal("conexão não foi fechada no shutdown")
	}
	assert.Eventually(t, func() bool { return h.ClientCount() == 0 }, 2*time.Second, testTick)
}
