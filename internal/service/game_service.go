package service

import (
	"context"
	"fmt"

	"github.com/benbeisheim/chess-relay/internal/ws"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame() (string, error) {
	s, err := gs.gameManager.NewGame()
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	return s.ID, nil
}

func (gs *GameService) GetGameState(gameID string) (State, error) {
	s, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return State{}, err
	}
	return s.State(), nil
}

// Open registers out with the game under addr and announces it. The returned
// ClientSession must be closed when the connection ends.
func (gs *GameService) Open(ctx context.Context, gameID, addr string, out Client) (*ClientSession, error) {
	s, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Join(addr, out); err != nil {
		return nil, err
	}
	cs := &ClientSession{Addr: addr, session: s, out: out}
	if err := s.Submit(ctx, Inbound{Sender: addr, Action: ws.Connect{Addr: addr}}); err != nil {
		s.Leave(addr, out)
		return nil, fmt.Errorf("announce %s: %w", addr, err)
	}
	return cs, nil
}
