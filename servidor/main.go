package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"Studyio/servidor/internal/game"
	"Studyio/servidor/internal/hub"
	"Studyio/servidor/internal/sessions"
	"Studyio/shared/config"
)

func main() {
	// Garante que o working directory é o mesmo diretório do executável,
	// para que caminhos relativos (saves/, tmp/) funcionem corretamente.
	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		os.Chdir(exeDir)
	}

	cfg := config.Load()

	addr := flag.String("addr", cfg.ListenAddr, "Endereço HTTP/WebSocket do servidor")
	dbPath := flag.String("db", cfg.SessionsDB, "Banco SQLite das sessões (vazio desativa)")
	tickMS := flag.Int("tick", cfg.TickMS, "Intervalo do tick em milissegundos")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lshortfile)

	// Configurar Log em Arquivo para depuração de crash
	if err := os.MkdirAll("tmp", 0755); err == nil {
		logFile, err := os.OpenFile("tmp/server.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			// MultiWriter para logar no console e no arquivo simultaneamente
			mw := io.MultiWriter(os.Stdout, logFile)
			log.SetOutput(mw)
		}
	}
	log.Println("╔══════════════════════════════════════╗")
	log.Println("║        Studyio SERVER v0.1.0         ║")
	log.Println("╚══════════════════════════════════════╝")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Persistência é opcional: sem banco o jogo continua
	var store *sessions.Store
	if *dbPath != "" {
		s, err := sessions.Open(*dbPath)
		if err != nil {
			log.Printf("[Sessions] Aviso: histórico desativado: %v", err)
		} else {
			store = s
			defer store.Close()
		}
	}

	world := game.NewWorld(cfg.PlayerSpeed)
	h := hub.New(world, game.NewIDAllocator(), store, time.Duration(*tickMS)*time.Millisecond)
	go h.Run(ctx)
	go h.RunWorld(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("/", h.ServeWS) // A ponte do navegador conecta na raiz

	// Verificação de porta antes de anunciar o servidor
	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Printf("╔══════════════════════════════════════════════════════════════╗")
		log.Printf("║ ERRO CRÍTICO: Não foi possível abrir %s.", *addr)
		log.Printf("║ Provavelmente há outra instância do servidor rodando.        ║")
		log.Printf("╚══════════════════════════════════════════════════════════════╝")
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}

	srv := &http.Server{Handler: mux}
	go func() {
		<-ctx.Done()
		log.Println("Encerrando servidor...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Servidor Studyio iniciado em ws://%s/ws (tick %dms)", ln.Addr(), *tickMS)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Erro fatal no servidor HTTP: %v", err)
	}
}
