package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/benbeisheim/chess-relay/internal/model"
	"github.com/benbeisheim/chess-relay/internal/ws"
)

// Client receives encoded actions. Send must not block; an error means the
// connection can no longer keep up and is dropped from the broadcast set.
type Client interface {
	Send(data []byte) error
}

// Inbound is an action tagged with the address of the connection it came from.
type Inbound struct {
	Sender string
	Action ws.Action
}

// State is a point-in-time view of a session.
type State struct {
	GameID      string       `json:"gameId"`
	Board       *model.Board `json:"boardState"`
	ToMove      model.Color  `json:"toMove"`
	IsCheck     bool         `json:"isCheck"`
	IsCheckmate bool         `json:"isCheckmate"`
	Players     model.Seats  `json:"players"`
	Connected   int          `json:"connected"`
}

// Session is the relay for one game. Run is its only board mutator; every
// other goroutine reads the board under mu or talks to it through the inbox.
type Session struct {
	ID     string
	logger *zap.Logger

	mu        sync.RWMutex
	board     *model.Board
	check     bool
	checkmate bool

	clientsMu sync.RWMutex
	clients   map[string]Client
	seats     model.Seats

	inbox chan Inbound
	done  chan struct{}
}

func NewSession(id string, inboxSize int, logger *zap.Logger) *Session {
	if inboxSize < 1 {
		inboxSize = 1
	}
	return &Session{
		ID:      id,
		logger:  logger.With(zap.String("game_id", id)),
		board:   model.NewBoard(),
		clients: make(map[string]Client),
		inbox:   make(chan Inbound, inboxSize),
		done:    make(chan struct{}),
	}
}

// Run processes the inbox in arrival order until ctx is cancelled.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)
	s.logger.Info("relay started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("relay stopped")
			return
		case in := <-s.inbox:
			if err := s.process(in); err != nil {
				s.logger.Debug("action dropped",
					zap.String("addr", in.Sender),
					zap.String("variant", string(in.Action.Variant())),
					zap.Error(err),
				)
			}
		}
	}
}

// Done is closed once Run has returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Submit queues an action for the relay. It blocks while the inbox is full.
func (s *Session) Submit(ctx context.Context, in Inbound) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.inbox <- in:
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Join adds c to the broadcast set under addr and binds a seat if one is free.
func (s *Session) Join(addr string, c Client) (model.Role, error) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, exists := s.clients[addr]; exists {
		return "", fmt.Errorf("%w: %s", ErrAddrInUse, addr)
	}
	s.clients[addr] = c
	role := s.seats.Claim(addr)
	s.logger.Info("client joined", zap.String("addr", addr), zap.String("role", string(role)))
	return role, nil
}

// Leave removes addr from the broadcast set if c is still the registered
// client. Seats stay bound so a returning player keeps their color.
func (s *Session) Leave(addr string, c Client) bool {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if cur, ok := s.clients[addr]; !ok || cur != c {
		return false
	}
	delete(s.clients, addr)
	s.logger.Info("client left", zap.String("addr", addr))
	return true
}

func (s *Session) RoleOf(addr string) model.Role {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return s.seats.RoleOf(addr)
}

// CanAct reports whether addr plays the side to move.
func (s *Session) CanAct(addr string) bool {
	color, ok := s.RoleOf(addr).Color()
	if !ok {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board.Active == color
}

func (s *Session) State() State {
	s.mu.RLock()
	board := s.board.Clone()
	check, checkmate := s.check, s.checkmate
	s.mu.RUnlock()

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return State{
		GameID:      s.ID,
		Board:       board,
		ToMove:      board.Active,
		IsCheck:     check,
		IsCheckmate: checkmate,
		Players:     s.seats,
		Connected:   len(s.clients),
	}
}

func (s *Session) process(in Inbound) error {
	switch a := in.Action.(type) {
	case ws.Select:
		return s.handleSelect(in.Sender, a.Cell)
	case ws.Move:
		return s.handleMove(in.Sender, a)
	case ws.Connect:
		s.broadcast(a)
		s.sendBoard(a.Addr)
		return nil
	case ws.Disconnect, ws.Msg:
		s.broadcast(a)
		return nil
	}
	return fmt.Errorf("%w: %T", ErrUnexpectedAction, in.Action)
}

// sideOf returns the color addr plays if it is that color's turn.
func (s *Session) sideOf(addr string) (model.Color, error) {
	color, ok := s.RoleOf(addr).Color()
	if !ok {
		return "", fmt.Errorf("%w: %s is a spectator", ErrOutOfTurn, addr)
	}
	if s.board.Active != color {
		return "", fmt.Errorf("%w: %s plays %s", ErrOutOfTurn, addr, color)
	}
	return color, nil
}

func (s *Session) handleSelect(sender string, cell model.Cell) error {
	s.mu.RLock()
	color, err := s.sideOf(sender)
	if err != nil {
		s.mu.RUnlock()
		return err
	}
	piece := s.board.PieceAt(cell)
	if piece == nil || piece.Color != color {
		s.mu.RUnlock()
		return fmt.Errorf("%w: %s", ErrIllegalSelection, cell)
	}
	cells := s.board.LegalMoves(cell)
	s.mu.RUnlock()

	s.unicast(sender, ws.Moves{Cells: cells})
	return nil
}

func (s *Session) handleMove(sender string, m ws.Move) error {
	s.mu.Lock()
	color, err := s.sideOf(sender)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	piece := s.board.PieceAt(m.From)
	if piece == nil || piece.Color != color || !s.board.IsLegalMove(m.From, m.To) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s->%s", ErrInvalidMove, m.From, m.To)
	}

	s.board.ApplyMove(m.From, m.To)
	opponent := color.Opponent()
	s.check = s.board.IsInCheck(opponent)
	s.checkmate = s.board.IsCheckmate(opponent)
	s.board.SwitchTurn()
	out := ws.Board{Board: s.board.Clone(), Check: s.check, Checkmate: s.checkmate}
	s.mu.Unlock()

	s.logger.Info("move applied",
		zap.String("addr", sender),
		zap.Stringer("from", m.From),
		zap.Stringer("to", m.To),
		zap.Bool("check", out.Check),
		zap.Bool("checkmate", out.Checkmate),
	)
	s.broadcast(out)
	return nil
}

func (s *Session) sendBoard(addr string) {
	s.mu.RLock()
	out := ws.Board{Board: s.board.Clone(), Check: s.check, Checkmate: s.checkmate}
	s.mu.RUnlock()
	s.unicast(addr, out)
}

func (s *Session) unicast(addr string, a ws.Action) {
	data, err := ws.Encode(a)
	if err != nil {
		s.logger.Error("encode failed", zap.String("variant", string(a.Variant())), zap.Error(err))
		return
	}
	s.clientsMu.RLock()
	c, ok := s.clients[addr]
	s.clientsMu.RUnlock()
	if !ok {
		return
	}
	s.deliver(addr, c, data)
}

func (s *Session) broadcast(a ws.Action) {
	data, err := ws.Encode(a)
	if err != nil {
		s.logger.Error("encode failed", zap.String("variant", string(a.Variant())), zap.Error(err))
		return
	}
	s.clientsMu.RLock()
	targets := make(map[string]Client, len(s.clients))
	for addr, c := range s.clients {
		targets[addr] = c
	}
	s.clientsMu.RUnlock()

	for addr, c := range targets {
		s.deliver(addr, c, data)
	}
}

func (s *Session) deliver(addr string, c Client, data []byte) {
	if err := c.Send(data); err != nil {
		s.logger.Warn("send failed, dropping client", zap.String("addr", addr), zap.Error(err))
		s.Leave(addr, c)
	}
}
