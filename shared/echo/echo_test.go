package echo

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, ln) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("Serve não terminou após cancelamento")
		}
	})
	return ln.Addr().String()
}

func dial(t *testing.T, addr string) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, err := Dial(ctx, addr)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestExchange(t *testing.T) {
	c := dial(t, startServer(t))

	reply, err := c.Exchange("ola")
	require.NoError(t, err)
	assert.Equal(t, "Server: ola", reply)

	reply, err = c.Exchange("segunda linha")
	require.NoError(t, err)
	assert.Equal(t, "Server: segunda linha", reply)
}

func TestByeClosesConnection(t *testing.T) {
	c := dial(t, startServer(t))

	reply, err := c.Exchange("BYE")
	require.NoError(t, err)
	assert.Equal(t, "Server: BYE", reply)

	_, err = c.Exchange("ainda ai?")
	assert.Error(t, err)
}

func TestConcurrentClients(t *testing.T) {
	addr := startServer(t)
	a := dial(t, addr)
	b := dial(t, addr)

	ra, err := a.Exchange("a")
	require.NoError(t, err)
	rb, err := b.Exchange("b")
	require.NoError(t, err)
	assert.Equal(t, "Server: a", ra)
	assert.Equal(t, "Server: b", rb)
}

func TestRunInteractive(t *testing.T) {
	c := dial(t, startServer(t))

	in := strings.NewReader("um\ndois\nbye\nnunca enviado\n")
	var out bytes.Buffer
	require.NoError(t, c.Run(context.Background(), in, &out))

	s := out.String()
	assert.Contains(t, s, "Server: um\n")
	assert.Contains(t, s, "Server: dois\n")
	assert.Contains(t, s, "Closing connection...")
	assert.NotContains(t, s, "nunca enviado")
	assert.Equal(t, 3, strings.Count(s, Prompt))
}

func TestRunEndOfInput(t *testing.T) {
	c := dial(t, startServer(t))
	var out bytes.Buffer
	assert.NoError(t, c.Run(context.Background(), strings.NewReader("x\n"), &out))
	assert.Contains(t, out.String(), "Server: x")
}

func TestDialFails(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = Dial(ctx, addr)
	assert.Error(t, err)
}

func TestIsBye(t *testing.T) {
	for in, want := range map[string]bool{"bye": true, "Bye": true, " BYE ": true, "goodbye": false, "": false} {
		assert.Equal(t, want, IsBye(in), in)
	}
}
