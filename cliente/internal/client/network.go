package client

import (
	"fmt"
	"log"
	"sync"
	"time"

	"Studyio/shared/protocol"

	"github.com/gorilla/websocket"
)

// NetworkClient lida com a comunicação com o servidor de jogo
type NetworkClient struct {
	conn      *websocket.Conn
	url       string
	codec     protocol.Codec
	connected bool
	mu        sync.RWMutex
	writeMu   sync.Mutex
	done      chan struct{}

	// Reconexão
	MaxRetries int
	RetryDelay time.Duration

	// Callbacks para o App (chamados na goroutine de leitura)
	OnWelcome    func(playerID int)
	OnPositions  func(players map[int]protocol.Position)
	OnDisconnect func(playerID int)
	OnClosed     func(err error)
}

// NewNetworkClient cria o cliente. subprotocol escolhe o codec oferecido ao servidor.
func NewNetworkClient(url, subprotocol string) *NetworkClient {
	return &NetworkClient{
		url:        url,
		codec:      protocol.CodecFor(subprotocol),
		MaxRetries: 10,
		RetryDelay: 2 * time.Second,
		done:       make(chan struct{}),
	}
}

func (c *NetworkClient) Connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
		Subprotocols:     []string{c.codec.Name()},
	}

	var conn *websocket.Conn
	var err error
	maxRetries := max(c.MaxRetries, 1)
	for i := 0; i < maxRetries; i++ {
		log.Printf("[Network] Tentativa de conexão %d/%d em %s...", i+1, maxRetries, c.url)
		conn, _, err = dialer.Dial(c.url, nil)
		if err == nil {
			break
		}
		log.Printf("[Network] Servidor ainda não está pronto: %v. Aguardando...", err)
		if i < maxRetries-1 {
			time.Sleep(c.RetryDelay)
		}
	}

	if err != nil {
		log.Printf("[Network] ERRO CRÍTICO após %d tentativas: %v", maxRetries, err)
		return fmt.Errorf("falha ao conectar em %s: %w", c.url, err)
	}

	// O servidor pode recusar o subprotocolo; usamos o que foi negociado
	codec := protocol.CodecFor(conn.Subprotocol())
	if codec.Name() != c.codec.Name() {
		log.Printf("[Network] Servidor negociou %s em vez de %s", codec.Name(), c.codec.Name())
	}

	c.mu.Lock()
	c.conn = conn
	c.codec = codec
	c.connected = true
	c.mu.Unlock()

	go c.readLoop(conn, codec)
	return nil
}

func (c *NetworkClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Codec devolve o codec em uso.
func (c *NetworkClient) Codec() protocol.Codec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.codec
}

// SendControl envia o estado das teclas e o ângulo de mira.
func (c *NetworkClient) SendControl(ctl protocol.Control) error {
	c.mu.RLock()
	conn, codec, connected := c.conn, c.codec, c.connected
	c.mu.RUnlock()
	if !connected {
		return fmt.Errorf("não conectado")
	}

	data, err := codec.Encode(ctl)
	if err != nil {
		return fmt.Errorf("falha ao serializar controle: %w", err)
	}
	frame := websocket.TextMessage
	if codec.Binary() {
		frame = websocket.BinaryMessage
	}

	c.writeMu.Lock()
	err = conn.WriteMessage(frame, data)
	c.writeMu.Unlock()

	if err != nil {
		log.Printf("[Network] Erro ao enviar mensagem: %v", err)
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		return err
	}
	return nil
}

// Close encerra a conexão e espera o readLoop terminar.
func (c *NetworkClient) Close() {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return
	}

	c.writeMu.Lock()
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	conn.Close()
	<-c.done
}

func (c *NetworkClient) readLoop(conn *websocket.Conn, codec protocol.Codec) {
	var lastErr error
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Network] Recuperado de pânico no readLoop: %v", r)
			lastErr = fmt.Errorf("pânico: %v", r)
		}
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		conn.Close()
		if c.OnClosed != nil {
			c.OnClosed(lastErr)
		}
		close(c.done)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[Network] Conexão perdida: %v", err)
			lastErr = err
			return
		}

		msg, err := codec.Decode(data)
		if err != nil {
			log.Printf("[Network] Erro ao decodificar mensagem: %v", err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *NetworkClient) handleMessage(msg protocol.Message) {
	switch m := msg.(type) {
	case protocol.Welcome:
		log.Printf("[Network] Bem-vindo, jogador %d", m.PlayerID)
		if c.OnWelcome != nil {
			c.OnWelcome(m.PlayerID)
		}
	case protocol.Positions:
		if c.OnPositions != nil {
			c.OnPositions(m.Players)
		}
	case protocol.Disconnect:
		log.Printf("[Network] Jogador %d saiu", m.PlayerID)
		if c.OnDisconnect != nil {
			c.OnDisconnect(m.PlayerID)
		}
	default:
		log.Printf("[Network] Mensagem inesperada: %v", msg.Type())
	}
}
