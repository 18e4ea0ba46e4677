// Package sessions persiste o histórico de conexões dos jogadores em SQLite.
package sessions

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Session é uma conexão de jogador, do welcome até a desconexão.
type Session struct {
	ID         uint   `gorm:"primaryKey"`
	PlayerID   int    `gorm:"index"`
	RemoteAddr string
	Codec      string
	StartedAt  time.Time
	EndedAt    *time.Time
	LastX      float32
	LastY      float32
}

// Metadata armazena informações globais do banco.
type Metadata struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

const CurrentFormatVersion = 1

// Store é o histórico de sessões.
type Store struct {
	DB *gorm.DB
}

// Open abre (ou cria) o banco SQLite e roda as migrações.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no SQLite: %w", err)
	}

	// Conexões do hub escrevem em paralelo; uma conexão só evita SQLITE_BUSY
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Session{}, &Metadata{}); err != nil {
		return nil, fmt.Errorf("falha na migração do banco: %w", err)
	}

	db.Save(&Metadata{Key: "FormatVersion", Value: fmt.Sprint(CurrentFormatVersion)})

	log.Printf("[Sessions] Banco de dados SQLite aberto: %s", path)
	return &Store{DB: db}, nil
}

// Begin registra o início de uma sessão e devolve seu ID.
func (s *Store) Begin(playerID int, remoteAddr, codec string) (uint, error) {
	if s == nil || s.DB == nil {
		return 0, fmt.Errorf("banco de dados não inicializado")
	}
	sess := Session{
		PlayerID:   playerID,
		RemoteAddr: remoteAddr,
		Codec:      codec,
		StartedAt:  time.Now(),
	}
	if err := s.DB.Create(&sess).Error; err != nil {
		return 0, fmt.Errorf("falha ao registrar sessão do jogador %d: %w", playerID, err)
	}
	return sess.ID, nil
}

// End fecha a sessão guardando a última posição do jogador.
func (s *Store) End(id uint, x, y float32) error {
	if s == nil || s.DB == nil {
		return fmt.Errorf("banco de dados não inicializado")
	}
	now := time.Now()
	res := s.DB.Model(&Session{}).Where("id = ?", id).Updates(map[string]any{
		"ended_at": &now,
		"last_x":   x,
		"last_y":   y,
	})
	if res.Error != nil {
		return fmt.Errorf("falha ao encerrar sessão %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("sessão %d não encontrada", id)
	}
	return nil
}

// Recent devolve as últimas sessões, da mais nova para a mais antiga.
func (s *Store) Recent(limit int) ([]Session, error) {
	if s == nil || s.DB == nil {
		return nil, fmt.Errorf("banco de dados não inicializado")
	}
	var out []Session
	err := s.DB.Order("id desc").Limit(limit).Find(&out).Error
	return out, err
}

// Close fecha a conexão com o banco.
func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
