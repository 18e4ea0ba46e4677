package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Studyio/shared/config"
	"Studyio/shared/echo"
)

func main() {
	cfg := config.Load()

	addr := flag.String("addr", cfg.EchoAddr, "Endereço do servidor de eco")
	serve := flag.Bool("serve", false, "Rodar como servidor em vez de cliente")
	flag.Parse()

	if *addr == "" {
		*addr = echo.DefaultAddr
	}

	log.SetFlags(log.Ltime | log.Lshortfile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serve {
		runServer(ctx, *addr)
		return
	}
	runClient(ctx, *addr)
}

func runServer(ctx context.Context, addr string) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("[Eco] Erro ao escutar em %s: %v", addr, err)
	}
	log.Printf("[Eco] Servidor escutando em %s", ln.Addr())

	if err := echo.Serve(ctx, ln); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Fatalf("[Eco] Erro no servidor: %v", err)
	}
	log.Println("[Eco] Servidor encerrado")
}

func runClient(ctx context.Context, addr string) {
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	c, err := echo.Dial(dialCtx, addr)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro ao conectar em %s: %v\n", addr, err)
		os.Exit(1)
	}
	defer c.Close()

	if err := c.Run(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, echo.ErrClosed) && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(1)
	}
}
