package ws

import (
	"encoding/json"

	"github.com/benbeisheim/chess-relay/internal/model"
)

// Variant names one kind of action on the wire.
type Variant string

const (
	VariantConnect    Variant = "Connect"
	VariantDisconnect Variant = "Disconnect"
	VariantSelect     Variant = "Select"
	VariantMoves      Variant = "Moves"
	VariantMove       Variant = "Move"
	VariantBoard      Variant = "Board"
	VariantMsg        Variant = "Msg"
)

// Message is the wire envelope in both directions. Fields are positional and
// their shape depends on the variant.
type Message struct {
	Variant Variant           `json:"variant"`
	Fields  []json.RawMessage `json:"fields"`
}

// Payload is what browsers send: every field is a string.
type Payload struct {
	Variant Variant  `json:"variant"`
	Fields  []string `json:"fields"`
}

// Action is one typed message exchanged between clients and the relay.
type Action interface {
	Variant() Variant
}

type Connect struct {
	Addr string
}

type Disconnect struct {
	Addr string
}

// Select asks for the legal destinations of the piece on Cell. Addr is
// filled in by the server from the connection, never trusted from the client.
type Select struct {
	Addr string
	Cell model.Cell
}

type Moves struct {
	Cells []model.Cell
}

type Move struct {
	From model.Cell
	To   model.Cell
}

// Board carries a full position snapshot plus the check flags computed after
// the last accepted move.
type Board struct {
	Board     *model.Board
	Check     bool
	Checkmate bool
}

type Msg struct {
	User string
	Text string
}

func (Connect) Variant() Variant    { return VariantConnect }
func (Disconnect) Variant() Variant { return VariantDisconnect }
func (Select) Variant() Variant     { return VariantSelect }
func (Moves) Variant() Variant      { return VariantMoves }
func (Move) Variant() Variant       { return VariantMove }
func (Board) Variant() Variant      { return VariantBoard }
func (Msg) Variant() Variant        { return VariantMsg }

// boardState is the single field of a Board message.
type boardState struct {
	Color     model.Color        `json:"color"`
	Board     [8][8]*model.Piece `json:"board"`
	Check     bool               `json:"check"`
	Checkmate bool               `json:"checkmate"`
}
