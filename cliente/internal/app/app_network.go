package app

import (
	"log"

	"Studyio/cliente/internal/client"
	"Studyio/shared/protocol"
)

// connectServer tenta conectar ao servidor de jogo.
func (a *App) connectServer() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro em connectServer: %v", r)
		}
	}()

	nc := client.NewNetworkClient(a.Config.ServerURL, a.Config.Codec)

	// Callbacks
	nc.OnWelcome = func(id int) {
		a.mu.Lock()
		a.myID = id
		a.hasID = true
		a.status = "Conectado"
		a.mu.Unlock()
	}

	nc.OnPositions = func(players map[int]protocol.Position) {
		a.mu.Lock()
		a.players = players
		a.mu.Unlock()
	}

	nc.OnDisconnect = func(id int) {
		a.mu.Lock()
		delete(a.players, id)
		a.mu.Unlock()
	}

	nc.OnClosed = func(err error) {
		a.mu.Lock()
		a.status = "Desconectado"
		a.hasID = false
		a.players = make(map[int]protocol.Position)
		a.mu.Unlock()
	}

	if err := nc.Connect(); err != nil {
		log.Printf("[Server] Erro ao conectar: %v", err)
		a.mu.Lock()
		a.status = "Erro ao conectar ao servidor"
		a.mu.Unlock()
		return
	}

	// Publica o cliente só depois de conectado (lido pela thread da janela)
	a.mu.Lock()
	a.netClient = nc
	a.mu.Unlock()
	log.Printf("[Network] Conectado ao servidor (%s)", nc.Codec().Name())
}

// network devolve o cliente de rede, ou nil antes de conectar.
func (a *App) network() *client.NetworkClient {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.netClient
}

// snapshotPlayers copia o mapa de jogadores para desenhar fora do lock.
func (a *App) snapshotPlayers() (map[int]protocol.Position, int, bool, string) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(map[int]protocol.Position, len(a.players))
	for id, p := range a.players {
		out[id] = p
	}
	return out, a.myID, a.hasID, a.status
}
