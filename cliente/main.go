package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"Studyio/cliente/internal/app"
	"Studyio/shared/config"
	"Studyio/shared/protocol"
)

func main() {
	// Raylib/OpenGL exige rodar na thread principal do SO
	runtime.LockOSThread()

	// Flags de linha de comando
	serverURL := flag.String("server", "", "URL do servidor (padrão: ws://127.0.0.1:8765/ws)")
	codec := flag.String("codec", "", "Subprotocolo: "+protocol.SubprotocolJSON+" ou "+protocol.SubprotocolWire)
	offline := flag.Bool("offline", false, "Rodar sem servidor (luz segue o mouse)")
	scenePath := flag.String("scene", "", "Arquivo YAML da cena")
	fullscreen := flag.Bool("fullscreen", false, "Iniciar em tela cheia")
	debug := flag.Bool("debug", false, "Mostrar informações de debug")
	width := flag.Int("width", 0, "Largura da janela")
	height := flag.Int("height", 0, "Altura da janela")
	flag.Parse()

	// Configurar Log em Arquivo
	f, err := os.OpenFile("debug_studyio.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err == nil {
		log.SetOutput(f)
		log.Println("--- INICIANDO STUDYIO ---")
	}

	log.SetFlags(log.Ltime | log.Lshortfile)
	log.Println("╔══════════════════════════════════════╗")
	log.Println("║           Studyio v0.1.0             ║")
	log.Println("║   Luzes e sombras 2D multijogador    ║")
	log.Println("╚══════════════════════════════════════╝")

	// Carregar configurações
	cfg := config.Load()

	// Aplicar flags de linha de comando (sobrescrevem o config salvo)
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if *codec != "" {
		cfg.Codec = *codec
	}
	if *scenePath != "" {
		cfg.ScenePath = *scenePath
	}
	if *fullscreen {
		cfg.Fullscreen = true
	}
	if *debug {
		cfg.ShowDebugInfo = true
	}
	if *width > 0 {
		cfg.WindowWidth = int32(*width)
	}
	if *height > 0 {
		cfg.WindowHeight = int32(*height)
	}

	// Criar e rodar a aplicação
	application := app.New(cfg, *offline)
	application.Run()
}
