package game

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// MaxPlayerID é o limite (exclusivo) dos IDs de jogador.
const MaxPlayerID = 1000

var ErrNoFreeID = errors.New("nenhum ID de jogador livre")

// IDAllocator sorteia IDs em [0, MaxPlayerID) a partir de UUIDs aleatórios,
// sem repetir IDs ainda em uso.
type IDAllocator struct {
	mu    sync.Mutex
	inUse map[int]struct{}
	// newUUID pode ser trocado nos testes.
	newUUID func() uuid.UUID
}

func NewIDAllocator() *IDAllocator {
	return &IDAllocator{
		inUse:   make(map[int]struct{}),
		newUUID: uuid.New,
	}
}

// fromUUID reduz os 128 bits do UUID módulo MaxPlayerID.
func fromUUID(u uuid.UUID) int {
	rem := 0
	for _, b := range u {
		rem = (rem*256 + int(b)) % MaxPlayerID
	}
	return rem
}

// Acquire reserva um ID livre.
func (a *IDAllocator) Acquire() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.inUse) >= MaxPlayerID {
		return 0, ErrNoFreeID
	}

	// Sorteio com algumas tentativas, depois busca linear a partir do último sorteado
	id := 0
	for try := 0; try < 16; try++ {
		id = fromUUID(a.newUUID())
		if _, taken := a.inUse[id]; !taken {
			a.inUse[id] = struct{}{}
			return id, nil
		}
	}
	for i := 1; i < MaxPlayerID; i++ {
		cand := (id + i) % MaxPlayerID
		if _, taken := a.inUse[cand]; !taken {
			a.inUse[cand] = struct{}{}
			return cand, nil
		}
	}
	return 0, ErrNoFreeID
}

// Release devolve o ID.
func (a *IDAllocator) Release(id int) {
	a.mu.Lock()
	delete(a.inUse, id)
	a.mu.Unlock()
}
