// service/game_manager.go
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/benbeisheim/chess-relay/internal/config"
)

// GameManager owns every running session and the goroutines relaying them.
type GameManager struct {
	games  map[string]*Session
	mu     sync.RWMutex
	cfg    config.RelayConfig
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewGameManager(ctx context.Context, cfg config.RelayConfig, logger *zap.Logger) *GameManager {
	ctx, cancel := context.WithCancel(ctx)
	return &GameManager{
		games:  make(map[string]*Session),
		cfg:    cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// CreateGame starts a relay for gameID.
func (gm *GameManager) CreateGame(gameID string) (*Session, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if gm.ctx.Err() != nil {
		return nil, ErrSessionClosed
	}
	if _, exists := gm.games[gameID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrGameExists, gameID)
	}
	if gm.cfg.MaxGames > 0 && len(gm.games) >= gm.cfg.MaxGames {
		return nil, fmt.Errorf("%w: %d running", ErrTooManyGames, len(gm.games))
	}

	s := NewSession(gameID, gm.cfg.InboxSize, gm.logger)
	gm.games[gameID] = s
	gm.wg.Add(1)
	go func() {
		defer gm.wg.Done()
		s.Run(gm.ctx)
	}()
	return s, nil
}

// NewGame starts a relay under a fresh random id.
func (gm *GameManager) NewGame() (*Session, error) {
	return gm.CreateGame(uuid.New().String())
}

func (gm *GameManager) GetGame(gameID string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	s, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return s, nil
}

func (gm *GameManager) Count() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

// Shutdown stops every relay and waits for them to exit.
func (gm *GameManager) Shutdown() {
	gm.cancel()
	gm.wg.Wait()
	gm.logger.Info("all relays stopped", zap.Int("games", gm.Count()))
}
