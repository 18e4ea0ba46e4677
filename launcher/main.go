package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"Studyio/shared/config"
)

func main() {
	clients := flag.Int("clients", 1, "Quantidade de clientes a abrir")
	codec := flag.String("codec", "", "Subprotocolo dos clientes (vazio = config)")
	flag.Parse()

	fmt.Println("╔══════════════════════════════════════╗")
	fmt.Println("║          Studyio Launcher            ║")
	fmt.Println("╚══════════════════════════════════════╝")

	cfg := config.Load()

	// 1. Iniciar o Servidor (reside em sua própria subpasta)
	fmt.Println("[1/2] Iniciando Servidor...")
	serverCmd, err := startServer()
	if err != nil {
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}

	// 2. Aguardar o servidor aceitar conexões
	fmt.Println("Aguardando inicialização do servidor...")
	if err := waitForServer(cfg.ListenAddr, 10*time.Second); err != nil {
		log.Fatalf("Servidor não respondeu em %s: %v", cfg.ListenAddr, err)
	}

	// 3. Iniciar os Clientes
	fmt.Printf("[2/2] Abrindo %d cliente(s)...\n", *clients)

	absClientPath, err := filepath.Abs(exe("cliente/client"))
	if err != nil {
		log.Fatalf("Erro ao resolver caminho do cliente: %v", err)
	}

	for i := 0; i < *clients; i++ {
		args := []string{}
		if *codec != "" {
			args = append(args, "-codec", *codec)
		}
		clientCmd := exec.Command(absClientPath, args...)
		clientCmd.Dir = "cliente" // Diretório de trabalho do cliente (config e log)

		if err := clientCmd.Start(); err != nil {
			fmt.Printf("ERRO CRÍTICO: Não foi possível executar o cliente em %s\n", absClientPath)
			fmt.Printf("Detalhes: %v\n", err)
			return
		}
	}

	fmt.Println("\nSucesso! Studyio foi iniciado.")
	if serverCmd != nil {
		fmt.Println("Feche esta janela (Ctrl+C) para encerrar o servidor.")
		serverCmd.Wait()
	}
}

// startServer abre o servidor numa janela própria no Windows (para ver os logs)
// ou como processo filho nos outros sistemas.
func startServer() (*exec.Cmd, error) {
	if runtime.GOOS == "windows" {
		cmd := exec.Command("cmd", "/c", "start", "Studyio SERVER", "server.exe")
		cmd.Dir = "servidor"
		return nil, cmd.Run()
	}

	path, err := filepath.Abs(exe("servidor/server"))
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(path)
	cmd.Dir = "servidor"
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, cmd.Start()
}

// waitForServer tenta abrir uma conexão TCP até o servidor responder ou o prazo acabar.
func waitForServer(addr string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var d net.Dialer
	for {
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err == nil {
			conn.Close()
			return nil
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(250 * time.Millisecond):
		}
	}
}

func exe(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}
