package app

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"Studyio/cliente/internal/camera"
	"Studyio/cliente/internal/client"
	"Studyio/cliente/internal/render"
	"Studyio/shared/config"
	"Studyio/shared/lighting"
	"Studyio/shared/protocol"
	"Studyio/shared/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// PlayerSize é o lado do quadrado de cada jogador.
const PlayerSize = 50

// maxRemoteOccluders limita quantos outros jogadores projetam sombra.
const maxRemoteOccluders = 8

// worldLight é uma luz em coordenadas do mundo. O índice é o slot no pool.
type worldLight struct {
	X, Y   float32
	Radius float32
	zoom   float32 // Zoom usado no último SetupLight
}

// App é a aplicação principal do Studyio.
type App struct {
	Config  *config.Config
	Offline bool

	Cam *camera.Follow2D

	// Cena e iluminação (somente a thread da janela mexe)
	scene      scene.Layout
	pool       *lighting.Pool
	compositor *render.Compositor
	lights     []*worldLight
	occluders  []lighting.Rect

	// Estado da rede (escrito pela goroutine de leitura)
	netClient *client.NetworkClient
	tracker   protocol.ControlTracker
	mu        sync.RWMutex
	players   map[int]protocol.Position
	myID      int
	hasID     bool
	status    string

	// Jogador local no modo offline
	local protocol.Position

	frameCount int
}

// New cria uma nova instância da aplicação.
func New(cfg *config.Config, offline bool) *App {
	return &App{
		Config:  cfg,
		Offline: offline,
		players: make(map[int]protocol.Position),
		local:   protocol.Position{X: 100, Y: 100},
		status:  "Conectando...",
	}
}

// Run inicia o loop principal da aplicação.
func (a *App) Run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro fatal recuperado: %v", r)
			panic(r)
		}
	}()

	// Inicializar janela raylib
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(a.Config.WindowWidth, a.Config.WindowHeight, a.Config.WindowTitle)
	rl.SetTraceLogLevel(rl.LogWarning) // Reduz ruído no terminal

	if a.Config.Fullscreen {
		rl.ToggleFullscreen()
	}
	rl.SetTargetFPS(a.Config.TargetFPS)

	log.Println("[Studyio] Janela inicializada com sucesso")
	log.Printf("[Studyio] Resolução: %dx%d", rl.GetScreenWidth(), rl.GetScreenHeight())

	if err := a.init(); err != nil {
		log.Printf("[App] Erro ao inicializar: %v", err)
		rl.CloseWindow()
		return
	}

	if a.Offline {
		a.status = "Offline"
		log.Println("[App] Modo offline: sem servidor")
	} else {
		go a.connectServer()
	}

	// Loop principal
	for !rl.WindowShouldClose() {
		a.update()
		a.draw()
	}

	// Cleanup
	a.shutdown()
	rl.CloseWindow()
}

// init carrega a cena e cria o pool de luzes. Precisa da janela aberta (OpenGL).
func (a *App) init() error {
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	a.Cam = camera.New(w, h)

	if err := a.loadScene(w, h); err != nil {
		return err
	}

	pool, err := lighting.NewPool(render.Backend{}, a.Config.MaxLights, a.Config.MaxBoxes+maxRemoteOccluders)
	if err != nil {
		return err
	}
	a.pool = pool
	a.lights = make([]*worldLight, pool.Len())
	a.compositor = render.NewCompositor(w, h)

	for _, def := range a.scene.Lights {
		a.addLight(def.X, def.Y, def.Radius)
	}
	if len(a.scene.Lights) == 0 {
		a.addLight(float32(w)/2, float32(h)/2, a.Config.LightRadius)
	}
	return nil
}

func (a *App) loadScene(w, h int) error {
	if a.Config.ScenePath != "" {
		layout, err := scene.Load(a.Config.ScenePath)
		if err != nil {
			return err
		}
		if err := layout.Validate(a.Config.MaxBoxes, a.Config.MaxLights); err != nil {
			return err
		}
		a.scene = layout
		log.Printf("[Scene] Cena %q carregada: %d caixas, %d luzes", layout.Name, len(layout.Boxes), len(layout.Lights))
		return nil
	}

	a.scene = scene.Default(w, h, a.Config.MaxBoxes, rand.New(rand.NewSource(time.Now().UnixNano())))
	a.scene.Lights[0].Radius = a.Config.LightRadius
	log.Printf("[Scene] Cena aleatória gerada: %d caixas", len(a.scene.Boxes))
	return nil
}

// update atualiza a lógica do jogo a cada frame.
func (a *App) update() {
	a.frameCount++

	if rl.IsWindowResized() {
		a.Cam.Resize(rl.GetScreenWidth(), rl.GetScreenHeight())
		if a.compositor.Resize(rl.GetScreenWidth(), rl.GetScreenHeight()) {
			a.resetupLights()
		}
	}

	a.updateInput()
	a.updateCamera()
	a.updateLighting()
}

// shutdown realiza a limpeza de recursos.
func (a *App) shutdown() {
	log.Println("[App] Finalizando aplicação...")

	if nc := a.network(); nc != nil {
		nc.Close()
	}
	a.pool.Close()
	a.compositor.Unload()

	if err := a.Config.Save(); err != nil {
		log.Printf("[Studyio] Erro ao salvar configurações: %v", err)
	}
}
