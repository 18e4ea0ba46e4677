package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"Studyio/shared/config"
	"Studyio/shared/scene"
)

// Cores para o terminal (ANSI)
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

func main() {
	newScene := flag.String("newscene", "", "Gravar a cena padrão em YAML neste caminho e sair")
	preview := flag.String("preview", "", "Gravar a máscara de luz da cena em PNG neste caminho e sair")
	scenePath := flag.String("scene", "", "Cena YAML usada pela prévia (padrão: cena gerada)")
	seed := flag.Int64("seed", 1, "Semente das caixas aleatórias da cena padrão")
	flag.Parse()

	fmt.Println(ColorCyan + "╔══════════════════════════════════════╗" + ColorReset)
	fmt.Println(ColorCyan + "║        Studyio Native Builder        ║" + ColorReset)
	fmt.Println(ColorCyan + "╚══════════════════════════════════════╝" + ColorReset)

	cfg := config.Load()

	if *newScene != "" || *preview != "" {
		if err := sceneTools(cfg, *newScene, *preview, *scenePath, *seed); err != nil {
			fatal(err)
		}
		return
	}

	start := time.Now()

	// 1. Configurar Ambiente
	setupEnvironment()

	// 2. Compilar Servidor
	if err := buildComponent("SERVIDOR (CGO + SQLite)", "servidor", exe("servidor/server"), true, "-s -w"); err != nil {
		fatal(err)
	}

	// 3. Compilar Cliente
	clientFlags := "-s -w"
	if runtime.GOOS == "windows" {
		clientFlags += " -H=windowsgui"
	}
	if err := buildComponent("CLIENTE (CGO + GUI)", "cliente", exe("cliente/client"), true, clientFlags); err != nil {
		fatal(err)
	}

	// 4. Compilar Eco
	if err := buildComponent("ECO (Pure Go)", "eco", exe("eco/eco"), false, "-s -w"); err != nil {
		fatal(err)
	}

	// 5. Compilar Launcher
	if err := buildComponent("LAUNCHER (Pure Go)", "launcher", exe("Studyio"), false, "-s -w"); err != nil {
		fatal(err)
	}

	fmt.Printf("\n"+ColorCyan+"Build finalizada com sucesso em %v!"+ColorReset+"\n", time.Since(start).Round(time.Second))
	fmt.Println(ColorYellow + "Dica: Execute o '" + exe("Studyio") + "' para jogar." + ColorReset)
}

// exe acrescenta .exe no Windows.
func exe(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// sceneTools gera a cena padrão e/ou a prévia em PNG da máscara de luz.
func sceneTools(cfg *config.Config, newScene, preview, scenePath string, seed int64) error {
	w, h := int(cfg.WindowWidth), int(cfg.WindowHeight)

	layout := scene.Default(w, h, cfg.MaxBoxes, rand.New(rand.NewSource(seed)))
	if scenePath != "" {
		l, err := scene.Load(scenePath)
		if err != nil {
			return err
		}
		layout = l
	}
	if err := layout.Validate(cfg.MaxBoxes, cfg.MaxLights); err != nil {
		return err
	}

	if newScene != "" {
		if err := layout.Save(newScene); err != nil {
			return fmt.Errorf("falha ao gravar cena: %w", err)
		}
		fmt.Printf(ColorGreen+"  - Cena '%s' gravada -> %s"+ColorReset+"\n", layout.Name, newScene)
	}

	if preview != "" {
		f, err := os.Create(preview)
		if err != nil {
			return fmt.Errorf("falha ao criar prévia: %w", err)
		}
		defer f.Close()

		if err := scene.WritePreview(f, layout, w, h); err != nil {
			return err
		}
		fmt.Printf(ColorGreen+"  - Prévia %dx%d (%d luzes, %d caixas) -> %s"+ColorReset+"\n",
			w, h, len(layout.Lights), len(layout.Boxes), preview)
	}
	return nil
}

func setupEnvironment() {
	fmt.Println(ColorYellow + "\n[0/4] Configurando ambiente de compilação..." + ColorReset)

	// Adicionar MSYS2 ao PATH se estiver no Windows
	if runtime.GOOS == "windows" {
		msysPath := `C:\msys64\mingw64\bin`
		currentPath := os.Getenv("PATH")
		if !strings.Contains(currentPath, msysPath) {
			os.Setenv("PATH", msysPath+";"+currentPath)
			fmt.Printf("  - PATH atualizado: %s adicionado.\n", msysPath)
		}
		os.Setenv("CC", "gcc")
		fmt.Println("  - Compilador C: gcc (MSYS2)")
	}
}

func buildComponent(name, dir, output string, useCgo bool, ldflags string) error {
	fmt.Printf(ColorYellow+"\n[+] Compilando %s..."+ColorReset+"\n", name)

	cgoValue := "0"
	if useCgo {
		cgoValue = "1"
	}

	args := []string{"build", "-ldflags", ldflags, "-o", output, "./" + dir}
	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(), "CGO_ENABLED="+cgoValue)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("falha ao compilar %s: %w", name, err)
	}

	fmt.Printf(ColorGreen+"  - %s compilado com sucesso -> %s"+ColorReset+"\n", name, output)
	return nil
}

func fatal(err error) {
	fmt.Printf("\n"+ColorRed+"[ERRO FATAL] %v"+ColorReset+"\n", err)
	os.Exit(1)
}
