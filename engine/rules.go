package engine

// MaxRounds is the default round cap; a match still running after this many
// rounds ends in a draw.
const MaxRounds = 30

// Rules holds the configurable match settings.
type Rules struct {
	MaxRounds int  // 0 treated as MaxRounds
	Mode      Mode // chain matching mode
}

// DefaultRules returns the standard match rules.
func DefaultRules() Rules {
	return Rules{
		MaxRounds: MaxRounds,
		Mode:      ModeExactChar,
	}
}

// maxRounds returns the effective round cap, treating 0 as MaxRounds.
func (r *Rules) maxRounds() int {
	if r.MaxRounds <= 0 {
		return MaxRounds
	}
	return r.MaxRounds
}
