package board

// NextHistory computes the repetition log a Position implementation's ApplyMove should
// carry forward onto the position it returns. prev is the log of the position being
// moved from; digest is the Digest of the position being moved to. On an irreversible
// move (capture, pawn move, or any castling-rights change) the log resets to hold only
// the new position's own digest, rather than being emptied outright, so that position
// still counts as its own first occurrence for any later repetition of it. Every
// representation package calls this so the two boards agree on repetition bookkeeping.
func NextHistory(prev []uint64, irreversible bool, digest uint64) []uint64 {
	if irreversible {
		return []uint64{digest}
	}
	next := make([]uint64, len(prev), len(prev)+1)
	copy(next, prev)
	return append(next, digest)
}
