package model

// Move is a from/to pair. Captures are implicit in the destination occupant.
type Move struct {
	From Cell `json:"from"`
	To   Cell `json:"to"`
}

var (
	rookDirs   = []Cell{{Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: -1}}
	bishopDirs = []Cell{{Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
	queenDirs  = append(append([]Cell{}, rookDirs...), bishopDirs...)
	kingDirs   = queenDirs
	knightDirs = []Cell{
		{Row: 2, Col: 1}, {Row: 1, Col: -2}, {Row: -1, Col: 2}, {Row: -2, Col: -1},
		{Row: 1, Col: 2}, {Row: -2, Col: 1}, {Row: 2, Col: -1}, {Row: -1, Col: -2},
	}
)

// pawnDir is the row step of a forward pawn move.
func pawnDir(c Color) int {
	if c == Black {
		return 1
	}
	return -1
}

func pawnStartRow(c Color) int {
	if c == Black {
		return 1
	}
	return 6
}

// PseudoMoves returns the destinations the piece on cell can reach by its
// movement pattern, without checking king safety. Empty cell gives nil.
func (b *Board) PseudoMoves(cell Cell) []Cell {
	piece := b.PieceAt(cell)
	if piece == nil {
		return nil
	}
	switch piece.Type {
	case Queen:
		return b.slidingMoves(piece, queenDirs)
	case Rook:
		return b.slidingMoves(piece, rookDirs)
	case Bishop:
		return b.slidingMoves(piece, bishopDirs)
	case Knight:
		return b.stepMoves(piece, knightDirs)
	case King:
		return b.stepMoves(piece, kingDirs)
	case Pawn:
		return b.pawnMoves(piece)
	}
	return nil
}

func (b *Board) slidingMoves(piece *Piece, dirs []Cell) []Cell {
	var moves []Cell
	for _, dir := range dirs {
		target := piece.Cell.offset(dir)
		for target.InBounds() {
			if b.isEmpty(target) {
				moves = append(moves, target)
			} else {
				if b.isEnemy(piece.Color, target) {
					moves = append(moves, target)
				}
				break
			}
			target = target.offset(dir)
		}
	}
	return moves
}

func (b *Board) stepMoves(piece *Piece, dirs []Cell) []Cell {
	var moves []Cell
	for _, dir := range dirs {
		target := piece.Cell.offset(dir)
		if target.InBounds() && (b.isEmpty(target) || b.isEnemy(piece.Color, target)) {
			moves = append(moves, target)
		}
	}
	return moves
}

func (b *Board) pawnMoves(piece *Piece) []Cell {
	var moves []Cell
	dir := pawnDir(piece.Color)
	one := piece.Cell.offset(Cell{Row: dir})
	if one.InBounds() && b.isEmpty(one) {
		moves = append(moves, one)
		two := piece.Cell.offset(Cell{Row: 2 * dir})
		if piece.Cell.Row == pawnStartRow(piece.Color) && b.isEmpty(two) {
			moves = append(moves, two)
		}
	}
	for _, dc := range []int{-1, 1} {
		diag := piece.Cell.offset(Cell{Row: dir, Col: dc})
		if b.isEnemy(piece.Color, diag) {
			moves = append(moves, diag)
		}
	}
	return moves
}

// AttackMap marks the squares a side could capture on.
type AttackMap [8][8]bool

func (m *AttackMap) Has(cell Cell) bool {
	return cell.InBounds() && m[cell.Row][cell.Col]
}

func (m *AttackMap) mark(cell Cell) {
	if cell.InBounds() {
		m[cell.Row][cell.Col] = true
	}
}

// AttackedSquares computes the pseudo-legal reach of every piece of color.
// It never consults king safety, so check detection built on it terminates.
// Pawns attack their forward diagonals only; sliders attack up to and
// including the first occupied square whatever its color.
func (b *Board) AttackedSquares(color Color) AttackMap {
	var m AttackMap
	for _, piece := range b.Pieces(color) {
		switch piece.Type {
		case Queen:
			b.markRays(&m, piece.Cell, queenDirs)
		case Rook:
			b.markRays(&m, piece.Cell, rookDirs)
		case Bishop:
			b.markRays(&m, piece.Cell, bishopDirs)
		case Knight:
			for _, d := range knightDirs {
				m.mark(piece.Cell.offset(d))
			}
		case King:
			for _, d := range kingDirs {
				m.mark(piece.Cell.offset(d))
			}
		case Pawn:
			dir := pawnDir(piece.Color)
			m.mark(piece.Cell.offset(Cell{Row: dir, Col: -1}))
			m.mark(piece.Cell.offset(Cell{Row: dir, Col: 1}))
		}
	}
	return m
}

func (b *Board) markRays(m *AttackMap, from Cell, dirs []Cell) {
	for _, dir := range dirs {
		target := from.offset(dir)
		for target.InBounds() {
			m.mark(target)
			if !b.isEmpty(target) {
				break
			}
			target = target.offset(dir)
		}
	}
}
