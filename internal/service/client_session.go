package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chess-relay/internal/model"
	"github.com/benbeisheim/chess-relay/internal/ws"
)

const leaveTimeout = 2 * time.Second

// ClientSession is one connection's view of a game. The transport feeds it
// raw frames through Handle and calls Close exactly when the connection ends.
type ClientSession struct {
	Addr    string
	session *Session
	out     Client
	once    sync.Once
}

func (cs *ClientSession) GameID() string {
	return cs.session.ID
}

func (cs *ClientSession) Role() model.Role {
	return cs.session.RoleOf(cs.Addr)
}

// Handle decodes a client frame and forwards it to the relay. Decode errors
// and out-of-turn actions are returned so the caller can log them; nothing is
// sent back to the client.
func (cs *ClientSession) Handle(ctx context.Context, data []byte) error {
	a, err := ws.ParsePayload(data)
	if err != nil {
		return err
	}
	switch v := a.(type) {
	case ws.Select:
		if !cs.session.CanAct(cs.Addr) {
			return fmt.Errorf("%w: select from %s", ErrOutOfTurn, cs.Addr)
		}
		v.Addr = cs.Addr
		a = v
	case ws.Move:
		if !cs.session.CanAct(cs.Addr) {
			return fmt.Errorf("%w: move from %s", ErrOutOfTurn, cs.Addr)
		}
	case ws.Msg:
		v.User = string(cs.Role())
		a = v
	}
	return cs.session.Submit(ctx, Inbound{Sender: cs.Addr, Action: a})
}

// Close unregisters the connection and announces the departure. Calls after
// the first are no-ops.
func (cs *ClientSession) Close() {
	cs.once.Do(func() {
		// false when the relay already dropped us after a failed send
		cs.session.Leave(cs.Addr, cs.out)
		ctx, cancel := context.WithTimeout(context.Background(), leaveTimeout)
		defer cancel()
		_ = cs.session.Submit(ctx, Inbound{Sender: cs.Addr, Action: ws.Disconnect{Addr: cs.Addr}})
	})
}
