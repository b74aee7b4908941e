package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func cells(pairs ...int) []Cell {
	out := make([]Cell, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Cell{Row: pairs[i], Col: pairs[i+1]})
	}
	return out
}

func assertCellInvariant(t require.TestingT, b *Board) {
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if p := b.Grid[r][c]; p != nil {
				require.Equal(t, Cell{Row: r, Col: c}, p.Cell, "slot (%d,%d)", r, c)
			}
		}
	}
}

func TestNewBoard_StartingPosition(t *testing.T) {
	b := NewBoard()

	assert.Equal(t, White, b.Active)
	assert.Len(t, b.Pieces(White), 16)
	assert.Len(t, b.Pieces(Black), 16)
	assertCellInvariant(t, b)
	require.NoError(t, b.Validate())

	king, ok := b.KingCell(White)
	require.True(t, ok)
	assert.Equal(t, Cell{Row: 7, Col: 4}, king)
	king, ok = b.KingCell(Black)
	require.True(t, ok)
	assert.Equal(t, Cell{Row: 0, Col: 4}, king)
	assert.Equal(t, Queen, b.PieceAt(Cell{Row: 0, Col: 3}).Type)
	assert.Nil(t, b.PieceAt(Cell{Row: 4, Col: 4}))
}

func TestPieceAt_OffBoard(t *testing.T) {
	b := NewBoard()
	assert.Nil(t, b.PieceAt(Cell{Row: -1, Col: 0}))
	assert.Nil(t, b.PieceAt(Cell{Row: 0, Col: 8}))
}

func TestApplyMove_RelocatesAndCaptures(t *testing.T) {
	b := NewEmptyBoard(White)
	b.Place(Rook, White, Cell{Row: 4, Col: 4})
	b.Place(Knight, Black, Cell{Row: 4, Col: 7})

	require.True(t, b.ApplyMove(Cell{Row: 4, Col: 4}, Cell{Row: 4, Col: 7}))

	assert.Nil(t, b.PieceAt(Cell{Row: 4, Col: 4}))
	moved := b.PieceAt(Cell{Row: 4, Col: 7})
	require.NotNil(t, moved)
	assert.Equal(t, Rook, moved.Type)
	assert.Equal(t, White, moved.Color)
	assert.Empty(t, b.Pieces(Black))
	assert.Equal(t, White, b.Active, "ApplyMove must not switch turns")
	assertCellInvariant(t, b)
}

func TestApplyMove_RejectsEmptyAndOffBoard(t *testing.T) {
	b := NewBoard()
	before := b.Clone()

	assert.False(t, b.ApplyMove(Cell{Row: 4, Col: 4}, Cell{Row: 3, Col: 4}))
	assert.False(t, b.ApplyMove(Cell{Row: 6, Col: 4}, Cell{Row: 8, Col: 4}))
	assert.False(t, b.ApplyMove(Cell{Row: 6, Col: 4}, Cell{Row: 6, Col: 4}))
	assert.Equal(t, before, b)
}

func TestClone_IsDeep(t *testing.T) {
	b := NewBoard()
	sim := b.Clone()

	sim.ApplyMove(Cell{Row: 6, Col: 4}, Cell{Row: 4, Col: 4})
	sim.SwitchTurn()

	assert.Equal(t, White, b.Active)
	require.NotNil(t, b.PieceAt(Cell{Row: 6, Col: 4}))
	assert.Equal(t, Cell{Row: 6, Col: 4}, b.PieceAt(Cell{Row: 6, Col: 4}).Cell)
	assert.Nil(t, b.PieceAt(Cell{Row: 4, Col: 4}))
}

func TestSwitchTurn(t *testing.T) {
	b := NewBoard()
	b.SwitchTurn()
	assert.Equal(t, Black, b.Active)
	b.SwitchTurn()
	assert.Equal(t, White, b.Active)
}

func TestValidate(t *testing.T) {
	b := NewBoard()
	b.Grid[4][4] = &Piece{Type: Pawn, Color: White, Cell: Cell{Row: 5, Col: 4}}
	assert.ErrorIs(t, b.Validate(), ErrCellMismatch)

	b = NewEmptyBoard(White)
	b.Place(King, Black, Cell{Row: 0, Col: 0})
	b.Place(King, Black, Cell{Row: 7, Col: 7})
	assert.ErrorIs(t, b.Validate(), ErrTooManyKings)

	b = NewEmptyBoard(White)
	b.Grid[0][0] = &Piece{Type: "Archbishop", Color: White, Cell: Cell{}}
	assert.ErrorIs(t, b.Validate(), ErrBadPiece)

	b = NewEmptyBoard("Green")
	assert.ErrorIs(t, b.Validate(), ErrBadPiece)
}

func TestSeats_Claim(t *testing.T) {
	var s Seats

	assert.Equal(t, RoleWhite, s.Claim("a"))
	assert.Equal(t, RoleWhite, s.Claim("a"), "re-claiming keeps the seat")
	assert.Equal(t, RoleBlack, s.Claim("b"))
	assert.Equal(t, RoleSpectator, s.Claim("c"))
	assert.Equal(t, RoleSpectator, s.RoleOf(""))

	c, ok := RoleBlack.Color()
	assert.True(t, ok)
	assert.Equal(t, Black, c)
	_, ok = RoleSpectator.Color()
	assert.False(t, ok)
}

// TestRandomPlayout_Invariants plays random legal games and checks the
// structural invariants after every ply.
func TestRandomPlayout_Invariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := NewBoard()
		plies := rapid.IntRange(0, 60).Draw(rt, "plies")
		for i := 0; i < plies; i++ {
			mover := b.Active
			moves := b.LegalMovesFor(mover)
			if len(moves) == 0 {
				break
			}
			m := moves[rapid.IntRange(0, len(moves)-1).Draw(rt, "move")]
			require.True(rt, b.ApplyMove(m.From, m.To))
			b.SwitchTurn()

			assert.Equal(rt, mover.Opponent(), b.Active, "active color flips once per move")
			assertCellInvariant(rt, b)
			require.NoError(rt, b.Validate())
			_, ok := b.KingCell(White)
			require.True(rt, ok, "white king captured")
			_, ok = b.KingCell(Black)
			require.True(rt, ok, "black king captured")
			assert.False(rt, b.IsInCheck(mover), "legal move left mover in check")
		}
	})
}
