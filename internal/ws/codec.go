package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/benbeisheim/chess-relay/internal/model"
)

// ErrDecode marks a malformed or unsupported message. Callers drop such
// messages without answering.
var ErrDecode = errors.New("decode error")

func decodeErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDecode, fmt.Sprintf(format, args...))
}

// Encode serializes an action into the outbound envelope.
func Encode(a Action) ([]byte, error) {
	var fields []any
	switch v := a.(type) {
	case Connect:
		fields = []any{v.Addr}
	case Disconnect:
		fields = []any{v.Addr}
	case Select:
		fields = []any{v.Addr, v.Cell}
	case Moves:
		cells := v.Cells
		if cells == nil {
			cells = []model.Cell{}
		}
		fields = []any{cells}
	case Move:
		fields = []any{v.From, v.To}
	case Board:
		if v.Board == nil {
			return nil, errors.New("encode board: nil board")
		}
		fields = []any{boardState{
			Color:     v.Board.Active,
			Board:     v.Board.Grid,
			Check:     v.Check,
			Checkmate: v.Checkmate,
		}}
	case Msg:
		fields = []any{v.User, v.Text}
	default:
		return nil, fmt.Errorf("encode: unsupported action %T", a)
	}
	return json.Marshal(struct {
		Variant Variant `json:"variant"`
		Fields  []any   `json:"fields"`
	}{Variant: a.Variant(), Fields: fields})
}

// Decode parses an outbound envelope back into a typed action. Board
// snapshots are validated before they are returned.
func Decode(data []byte) (Action, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, decodeErr("envelope: %v", err)
	}
	switch msg.Variant {
	case VariantConnect:
		var addr string
		if err := unmarshalFields(msg, &addr); err != nil {
			return nil, err
		}
		return Connect{Addr: addr}, nil
	case VariantDisconnect:
		var addr string
		if err := unmarshalFields(msg, &addr); err != nil {
			return nil, err
		}
		return Disconnect{Addr: addr}, nil
	case VariantSelect:
		var a Select
		if err := unmarshalFields(msg, &a.Addr, &a.Cell); err != nil {
			return nil, err
		}
		if !a.Cell.InBounds() {
			return nil, decodeErr("select cell %s off board", a.Cell)
		}
		return a, nil
	case VariantMoves:
		var a Moves
		if err := unmarshalFields(msg, &a.Cells); err != nil {
			return nil, err
		}
		for _, c := range a.Cells {
			if !c.InBounds() {
				return nil, decodeErr("moves cell %s off board", c)
			}
		}
		return a, nil
	case VariantMove:
		var a Move
		if err := unmarshalFields(msg, &a.From, &a.To); err != nil {
			return nil, err
		}
		if !a.From.InBounds() || !a.To.InBounds() {
			return nil, decodeErr("move %s->%s off board", a.From, a.To)
		}
		return a, nil
	case VariantBoard:
		var st boardState
		if err := unmarshalFields(msg, &st); err != nil {
			return nil, err
		}
		b := &model.Board{Active: st.Color, Grid: st.Board}
		if err := b.Validate(); err != nil {
			return nil, decodeErr("board: %v", err)
		}
		return Board{Board: b, Check: st.Check, Checkmate: st.Checkmate}, nil
	case VariantMsg:
		var a Msg
		if err := unmarshalFields(msg, &a.User, &a.Text); err != nil {
			return nil, err
		}
		return a, nil
	}
	return nil, decodeErr("unknown variant %q", msg.Variant)
}

func unmarshalFields(msg Message, dst ...any) error {
	if len(msg.Fields) != len(dst) {
		return decodeErr("%s: want %d fields, got %d", msg.Variant, len(dst), len(msg.Fields))
	}
	for i, raw := range msg.Fields {
		if err := json.Unmarshal(raw, dst[i]); err != nil {
			return decodeErr("%s field %d: %v", msg.Variant, i, err)
		}
	}
	return nil
}

// ParsePayload decodes a client frame. Only Select, Move and Msg are
// accepted from clients; coordinates must be decimal integers in [0,8).
func ParsePayload(data []byte) (Action, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, decodeErr("payload: %v", err)
	}
	switch p.Variant {
	case VariantSelect:
		coords, err := parseCoords(p, 2)
		if err != nil {
			return nil, err
		}
		return Select{Cell: model.Cell{Row: coords[0], Col: coords[1]}}, nil
	case VariantMove:
		coords, err := parseCoords(p, 4)
		if err != nil {
			return nil, err
		}
		return Move{
			From: model.Cell{Row: coords[0], Col: coords[1]},
			To:   model.Cell{Row: coords[2], Col: coords[3]},
		}, nil
	case VariantMsg:
		if len(p.Fields) != 2 {
			return nil, decodeErr("Msg: want 2 fields, got %d", len(p.Fields))
		}
		return Msg{User: p.Fields[0], Text: p.Fields[1]}, nil
	}
	return nil, decodeErr("variant %q not accepted from clients", p.Variant)
}

func parseCoords(p Payload, n int) ([]int, error) {
	if len(p.Fields) != n {
		return nil, decodeErr("%s: want %d fields, got %d", p.Variant, n, len(p.Fields))
	}
	out := make([]int, n)
	for i, f := range p.Fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, decodeErr("%s field %d: %v", p.Variant, i, err)
		}
		if v < 0 || v >= 8 {
			return nil, decodeErr("%s field %d: %d out of range", p.Variant, i, v)
		}
		out[i] = v
	}
	return out, nil
}
