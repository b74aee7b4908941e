package model

import (
	"errors"
	"fmt"
)

type PieceType string

const (
	King   PieceType = "King"
	Queen  PieceType = "Queen"
	Rook   PieceType = "Rook"
	Bishop PieceType = "Bishop"
	Knight PieceType = "Knight"
	Pawn   PieceType = "Pawn"
)

func (p PieceType) Valid() bool {
	switch p {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return true
	}
	return false
}

type Color string

const (
	White Color = "White"
	Black Color = "Black"
)

func (c Color) Valid() bool {
	return c == White || c == Black
}

// Opponent returns the other side. Unknown colors map to White.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Cell is a board coordinate. Row 0 is Black's back rank.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) InBounds() bool {
	return c.Row >= 0 && c.Row < 8 && c.Col >= 0 && c.Col < 8
}

func (c Cell) offset(d Cell) Cell {
	return Cell{Row: c.Row + d.Row, Col: c.Col + d.Col}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

type Piece struct {
	Type  PieceType `json:"piece_type"`
	Color Color     `json:"color"`
	Cell  Cell      `json:"cell"`
}

// Board is the authoritative game position. Grid[r][c] holds the piece whose
// Cell is (r,c), or nil.
type Board struct {
	Active Color        `json:"color"`
	Grid   [8][8]*Piece `json:"board"`
}

var (
	ErrCellMismatch = errors.New("piece cell does not match grid slot")
	ErrTooManyKings = errors.New("more than one king of a color")
	ErrBadPiece     = errors.New("unknown piece type or color")
)

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting position with White to move.
func NewBoard() *Board {
	b := NewEmptyBoard(White)
	for col := 0; col < 8; col++ {
		b.Place(backRank[col], Black, Cell{Row: 0, Col: col})
		b.Place(Pawn, Black, Cell{Row: 1, Col: col})
		b.Place(Pawn, White, Cell{Row: 6, Col: col})
		b.Place(backRank[col], White, Cell{Row: 7, Col: col})
	}
	return b
}

func NewEmptyBoard(active Color) *Board {
	return &Board{Active: active}
}

// Place puts a new piece on cell, replacing any occupant. Off-board cells are ignored.
func (b *Board) Place(t PieceType, c Color, cell Cell) {
	if !cell.InBounds() {
		return
	}
	b.Grid[cell.Row][cell.Col] = &Piece{Type: t, Color: c, Cell: cell}
}

// PieceAt returns the occupant of cell, or nil for empty or off-board cells.
func (b *Board) PieceAt(cell Cell) *Piece {
	if !cell.InBounds() {
		return nil
	}
	return b.Grid[cell.Row][cell.Col]
}

func (b *Board) isEmpty(cell Cell) bool {
	return b.PieceAt(cell) == nil
}

func (b *Board) isEnemy(color Color, cell Cell) bool {
	p := b.PieceAt(cell)
	return p != nil && p.Color != color
}

// Clone deep-copies the board so the copy can be mutated freely.
func (b *Board) Clone() *Board {
	out := &Board{Active: b.Active}
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if p := b.Grid[r][c]; p != nil {
				cp := *p
				out.Grid[r][c] = &cp
			}
		}
	}
	return out
}

// ApplyMove relocates the piece on from to to, capturing whatever stood there.
// It neither validates legality nor switches the side to move. It reports
// false and leaves the board untouched when from is empty or a cell is off the board.
func (b *Board) ApplyMove(from, to Cell) bool {
	if !from.InBounds() || !to.InBounds() || from == to {
		return false
	}
	piece := b.Grid[from.Row][from.Col]
	if piece == nil {
		return false
	}
	b.Grid[from.Row][from.Col] = nil
	b.Grid[to.Row][to.Col] = piece
	piece.Cell = to
	return true
}

func (b *Board) SwitchTurn() {
	b.Active = b.Active.Opponent()
}

// KingCell finds color's king.
func (b *Board) KingCell(color Color) (Cell, bool) {
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if p := b.Grid[r][c]; p != nil && p.Type == King && p.Color == color {
				return p.Cell, true
			}
		}
	}
	return Cell{}, false
}

// Pieces returns the pieces of color in row-major order.
func (b *Board) Pieces(color Color) []*Piece {
	var out []*Piece
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if p := b.Grid[r][c]; p != nil && p.Color == color {
				out = append(out, p)
			}
		}
	}
	return out
}

// Validate checks the structural invariants of a board, typically one that
// was decoded from the wire.
func (b *Board) Validate() error {
	if !b.Active.Valid() {
		return fmt.Errorf("%w: active color %q", ErrBadPiece, b.Active)
	}
	kings := map[Color]int{}
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := b.Grid[r][c]
			if p == nil {
				continue
			}
			if !p.Type.Valid() || !p.Color.Valid() {
				return fmt.Errorf("%w: %q %q at (%d,%d)", ErrBadPiece, p.Color, p.Type, r, c)
			}
			if p.Cell != (Cell{Row: r, Col: c}) {
				return fmt.Errorf("%w: slot (%d,%d) holds piece at %s", ErrCellMismatch, r, c, p.Cell)
			}
			if p.Type == King {
				kings[p.Color]++
				if kings[p.Color] > 1 {
					return fmt.Errorf("%w: %s", ErrTooManyKings, p.Color)
				}
			}
		}
	}
	return nil
}
