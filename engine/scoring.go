package engine

// Utility returns the match outcome for side s in [-1, +1].
// Winner gets +1, loser gets -1, a draw gives 0 to both.
func (w Winner) Utility(s Side) float32 {
	switch w {
	case WinnerOf(s):
		return 1.0
	case WinnerOf(s.Opponent()):
		return -1.0
	}
	return 0
}
