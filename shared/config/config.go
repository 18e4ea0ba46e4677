package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config armazena as configurações do Studyio.
type Config struct {
	// Janela
	WindowWidth  int32  `json:"window_width"`
	WindowHeight int32  `json:"window_height"`
	WindowTitle  string `json:"window_title"`
	Fullscreen   bool   `json:"fullscreen"`
	TargetFPS    int32  `json:"target_fps"`

	// Servidor de jogo (Usado pelo Cliente)
	ServerURL string `json:"server_url"`
	Codec     string `json:"codec"` // "studyio.json" ou "studyio.proto"

	// Iluminação
	MaxLights   int     `json:"max_lights"`
	MaxBoxes    int     `json:"max_boxes"`
	LightRadius float32 `json:"light_radius"`
	ScenePath   string  `json:"scene_path"` // Vazio = cena aleatória

	// Servidor
	ListenAddr  string  `json:"listen_addr"`
	TickMS      int     `json:"tick_ms"`
	PlayerSpeed float32 `json:"player_speed"`
	SessionsDB  string  `json:"sessions_db"`

	// Eco
	EchoAddr string `json:"echo_addr"`

	// Debug
	ShowDebugInfo   bool `json:"show_debug_info"`
	ShowShadowLines bool `json:"show_shadow_lines"`
}

// DefaultConfig retorna a configuração padrão.
func DefaultConfig() *Config {
	return &Config{
		WindowWidth:  800,
		WindowHeight: 450,
		WindowTitle:  "Studyio",
		Fullscreen:   false,
		TargetFPS:    60,

		ServerURL: "ws://127.0.0.1:8765/ws",
		Codec:     "studyio.json",

		MaxLights:   16,
		MaxBoxes:    20,
		LightRadius: 300,

		ListenAddr:  "127.0.0.1:8765",
		TickMS:      33,
		PlayerSpeed: 10,
		SessionsDB:  "saves/sessions.db",

		EchoAddr: "127.0.0.1:12345",

		ShowDebugInfo:   true,
		ShowShadowLines: false,
	}
}

// configPath retorna o caminho do arquivo de configuração.
func configPath() string {
	execDir, err := os.Executable()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(filepath.Dir(execDir), "config.json")
}

// Load carrega as configurações do arquivo ao lado do executável.
// Se o arquivo não existir, retorna as configurações padrão.
func Load() *Config {
	return LoadFrom(configPath())
}

// LoadFrom carrega as configurações de um arquivo JSON específico.
func LoadFrom(path string) *Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig()
	}

	return cfg
}

// Save salva as configurações ao lado do executável.
func (c *Config) Save() error {
	return c.SaveTo(configPath())
}

// SaveTo salva as configurações em um arquivo JSON.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
