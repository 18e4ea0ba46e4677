// Package hub gerencia as conexões WebSocket dos jogadores.
package hub

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"Studyio/servidor/internal/game"
	"Studyio/servidor/internal/sessions"
	"Studyio/shared/protocol"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// client é uma conexão registrada. mu serializa as escritas no WebSocket.
type client struct {
	conn     *websocket.Conn
	codec    protocol.Codec
	playerID int
	mu       sync.Mutex
}

// Hub gerencia as conexões WebSocket ativas
type Hub struct {
	clients    map[*client]struct{}
	broadcast  chan protocol.Message
	register   chan *client
	unregister chan *client
	mu         sync.Mutex

	done     chan struct{}
	doneOnce sync.Once

	world    *game.World
	ids      *game.IDAllocator
	store    *sessions.Store // Opcional
	tick     time.Duration
	upgrader websocket.Upgrader
}

// New cria o hub. store pode ser nil (sem persistência).
func New(world *game.World, ids *game.IDAllocator, store *sessions.Store, tick time.Duration) *Hub {
	if tick <= 0 {
		tick = 33 * time.Millisecond
	}
	return &Hub{
		clients:    make(map[*client]struct{}),
		broadcast:  make(chan protocol.Message, 256), // Bufferizado para não travar as conexões
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		world:      world,
		ids:        ids,
		store:      store,
		tick:       tick,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			Subprotocols: []string{protocol.SubprotocolWire, protocol.SubprotocolJSON},
		},
	}
}

// Run processa registros e broadcasts até ctx ser cancelado.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Hub] Recuperado de pânico fatal: %v", r)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			log.Printf("[Hub] Cliente registrado: %s (jogador %d, %s)", c.conn.RemoteAddr(), c.playerID, c.codec.Name())
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				c.mu.Lock()
				delete(h.clients, c)
				c.conn.Close()
				c.mu.Unlock()
				log.Printf("[Hub] Cliente desregistrado: %s (jogador %d)", c.conn.RemoteAddr(), c.playerID)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			// Copia a lista de clientes para escrever fora do lock do hub
			h.mu.Lock()
			targets := make([]*client, 0, len(h.clients))
			for c := range h.clients {
				targets = append(targets, c)
			}
			h.mu.Unlock()

			for _, c := range targets {
				if err := c.write(msg); err != nil {
					log.Printf("[Hub] Erro ao enviar para cliente %s: %v", c.conn.RemoteAddr(), err)
					c.conn.Close()
					h.mu.Lock()
					delete(h.clients, c)
					h.mu.Unlock()
				}
			}
		}
	}
}

// RunWorld avança o mundo a cada tick até ctx ser cancelado.
func (h *Hub) RunWorld(ctx context.Context) {
	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("[World-Loop] Recuperado de pânico: %v", r)
					}
				}()
				h.world.Step()
			}()
		}
	}
}

func (h *Hub) shutdown() {
	h.doneOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		for c := range h.clients {
			c.conn.Close()
			delete(h.clients, c)
		}
		h.mu.Unlock()
		log.Println("[Hub] Encerrado")
	})
}

// Broadcast envia msg para todos os clientes registrados.
func (h *Hub) Broadcast(msg protocol.Message) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// ClientCount devolve o número de clientes registrados.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// write garante que apenas uma goroutine escreva no WebSocket por vez
func (c *client) write(msg protocol.Message) error {
	data, err := c.codec.Encode(msg)
	if err != nil {
		return fmt.Errorf("falha ao codificar %v: %w", msg.Type(), err)
	}
	frame := websocket.TextMessage
	if c.codec.Binary() {
		frame = websocket.BinaryMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(frame, data)
}

// ServeWS faz o upgrade da conexão e atende o jogador até ele desconectar.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Hub] Erro no upgrade do WebSocket: %v", err)
		return
	}

	id, err := h.ids.Acquire()
	if err != nil {
		log.Printf("[Hub] Recusando %s: %v", conn.RemoteAddr(), err)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "servidor cheio"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}

	c := &client{
		conn:     conn,
		codec:    protocol.CodecFor(conn.Subprotocol()),
		playerID: id,
	}
	h.world.Join(id)

	if err := c.write(protocol.Welcome{PlayerID: id}); err != nil {
		log.Printf("[Hub] Erro ao enviar welcome para %d: %v", id, err)
		h.world.Leave(id)
		h.ids.Release(id)
		conn.Close()
		return
	}
	log.Printf("[Hub] Jogador %d conectado de %s", id, conn.RemoteAddr())

	select {
	case h.register <- c:
	case <-h.done:
		h.world.Leave(id)
		h.ids.Release(id)
		conn.Close()
		return
	}

	var sessionID uint
	if h.store != nil {
		if sessionID, err = h.store.Begin(id, conn.RemoteAddr().String(), c.codec.Name()); err != nil {
			log.Printf("[Sessions] %v", err)
		}
	}

	stop := make(chan struct{})
	var senderDone sync.WaitGroup
	senderDone.Add(1)
	go func() {
		defer senderDone.Done()
		h.sendPositions(c, stop)
	}()

	h.readLoop(c)

	close(stop)
	senderDone.Wait()

	last, _ := h.world.Position(id)
	h.world.Leave(id)
	h.ids.Release(id)

	select {
	case h.unregister <- c:
	case <-h.done:
	}
	h.Broadcast(protocol.Disconnect{PlayerID: id})

	if h.store != nil && sessionID != 0 {
		if err := h.store.End(sessionID, last.X, last.Y); err != nil {
			log.Printf("[Sessions] %v", err)
		}
	}
	log.Printf("[Hub] Jogador %d desconectado", id)
}

// readLoop aplica os controles recebidos até a conexão fechar.
func (h *Hub) readLoop(c *client) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Hub] Recuperado de pânico na leitura do jogador %d: %v", c.playerID, r)
		}
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[Hub] Erro ao ler mensagem do jogador %d: %v", c.playerID, err)
			}
			return
		}

		msg, err := c.codec.Decode(data)
		if err != nil {
			log.Printf("[Hub] Mensagem inválida do jogador %d: %v", c.playerID, err)
			continue
		}
		ctl, ok := msg.(protocol.Control)
		if !ok {
			log.Printf("[Hub] Mensagem inesperada do jogador %d: %v", c.playerID, msg.Type())
			continue
		}
		h.world.ApplyControl(c.playerID, ctl)
	}
}

// sendPositions envia o snapshot a cada tick, somente quando ele difere do último enviado.
func (h *Hub) sendPositions(c *client, stop <-chan struct{}) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Hub] Recuperado de pânico no envio para o jogador %d: %v", c.playerID, r)
		}
	}()

	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()

	var last protocol.Positions
	sent := false
	for {
		select {
		case <-stop:
			return
		case <-h.done:
			return
		case <-ticker.C:
			snap := protocol.Positions{Players: h.world.Snapshot()}
			if sent && snap.Equal(last) {
				continue
			}
			if err := c.write(snap); err != nil {
				log.Printf("[Hub] Erro ao enviar posições para o jogador %d: %v", c.playerID, err)
				c.conn.Close()
				return
			}
			last = snap
			sent = true
		}
	}
}
