// Package echo implementa o servidor e o cliente de eco em TCP usados para testar a rede.
package echo

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"
)

// DefaultAddr é o endereço padrão do servidor de eco.
const DefaultAddr = "127.0.0.1:12345"

// Prompt é exibido antes de cada mensagem no modo interativo.
const Prompt = "Enter message (type 'bye' to exit): "

// Reply monta a resposta do servidor para uma linha.
func Reply(line string) string {
	return "Server: " + line
}

// IsBye reporta se a linha encerra a conversa.
func IsBye(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), "bye")
}

// Serve aceita conexões em ln até ctx ser cancelado. Cada conexão roda em sua própria goroutine.
func Serve(ctx context.Context, ln net.Listener) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	log.Printf("[Echo] Escutando em %s", ln.Addr())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("falha ao aceitar conexão: %w", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			handle(ctx, conn)
		}()
	}
}

func handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Echo] PÂNICO na conexão %s: %v", conn.RemoteAddr(), r)
		}
	}()

	// Fecha a conexão se o servidor for desligado no meio da leitura
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	log.Printf("[Echo] Novo cliente: %s", conn.RemoteAddr())
	scanner := bufio.NewScanner(conn)
	w := bufio.NewWriter(conn)
	for scanner.Scan() {
		line := scanner.Text()
		log.Printf("[Echo] Recebido: %s", line)

		if _, err := w.WriteString(Reply(line) + "\n"); err != nil {
			log.Printf("[Echo] Erro ao responder: %v", err)
			return
		}
		if err := w.Flush(); err != nil {
			log.Printf("[Echo] Erro ao responder: %v", err)
			return
		}

		if IsBye(line) {
			log.Printf("[Echo] Cliente desconectou: %s", conn.RemoteAddr())
			return
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		log.Printf("[Echo] Erro de leitura: %v", err)
	}
}

// ErrClosed indica que o servidor encerrou a conexão.
var ErrClosed = errors.New("conexão encerrada pelo servidor")

// Client é uma conexão de eco.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
}

// Dial conecta ao servidor de eco.
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar em %s: %w", addr, err)
	}
	return &Client{conn: conn, reader: bufio.NewReader(conn)}, nil
}

// Send envia uma linha sem esperar resposta.
func (c *Client) Send(msg string) error {
	_, err := io.WriteString(c.conn, msg+"\n")
	return err
}

// Exchange envia uma linha e espera a resposta.
func (c *Client) Exchange(msg string) (string, error) {
	if err := c.Send(msg); err != nil {
		return "", err
	}
	reply, err := c.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrClosed
		}
		return "", err
	}
	return strings.TrimRight(reply, "\r\n"), nil
}

// Close fecha a conexão.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Run é o modo interativo: lê linhas de in, envia e escreve as respostas em out.
// Para em "bye", no fim de in ou quando o servidor fecha a conexão.
func (c *Client) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	stop := context.AfterFunc(ctx, func() { c.conn.Close() })
	defer stop()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, Prompt)
		if !scanner.Scan() {
			return scanner.Err()
		}
		msg := scanner.Text()

		if IsBye(msg) {
			if err := c.Send(msg); err != nil {
				return err
			}
			fmt.Fprintln(out, "Closing connection...")
			return nil
		}

		reply, err := c.Exchange(msg)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, ErrClosed) {
				fmt.Fprintln(out, "Connection closed by the server!")
			}
			return err
		}
		fmt.Fprintln(out, reply)
	}
}
