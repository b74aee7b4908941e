package model

// LegalMoves returns the pseudo-legal destinations of the piece on cell that
// do not leave its own king attacked.
func (b *Board) LegalMoves(cell Cell) []Cell {
	piece := b.PieceAt(cell)
	if piece == nil {
		return nil
	}
	pseudo := b.PseudoMoves(cell)
	legal := make([]Cell, 0, len(pseudo))
	for _, to := range pseudo {
		if !b.leavesKingAttacked(piece.Color, cell, to) {
			legal = append(legal, to)
		}
	}
	return legal
}

// leavesKingAttacked plays the move on a throwaway copy and asks the attack
// generator whether mover's king is hit.
func (b *Board) leavesKingAttacked(mover Color, from, to Cell) bool {
	sim := b.Clone()
	sim.ApplyMove(from, to)
	return sim.IsInCheck(mover)
}

// IsLegalMove reports whether to is among the legal destinations from from.
func (b *Board) IsLegalMove(from, to Cell) bool {
	for _, c := range b.LegalMoves(from) {
		if c == to {
			return true
		}
	}
	return false
}

func (b *Board) LegalMovesFor(color Color) []Move {
	var moves []Move
	for _, p := range b.Pieces(color) {
		for _, to := range b.LegalMoves(p.Cell) {
			moves = append(moves, Move{From: p.Cell, To: to})
		}
	}
	return moves
}

func (b *Board) HasLegalMoves(color Color) bool {
	for _, p := range b.Pieces(color) {
		if len(b.LegalMoves(p.Cell)) > 0 {
			return true
		}
	}
	return false
}

// IsInCheck reports whether color's king stands on a square the opponent
// attacks. A side without a king is never in check.
func (b *Board) IsInCheck(color Color) bool {
	king, ok := b.KingCell(color)
	if !ok {
		return false
	}
	attacks := b.AttackedSquares(color.Opponent())
	return attacks.Has(king)
}

// IsCheckmate reports whether color is in check with no legal reply.
func (b *Board) IsCheckmate(color Color) bool {
	return b.IsInCheck(color) && !b.HasLegalMoves(color)
}
