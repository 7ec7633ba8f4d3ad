package agent

// Compliance terms, evaluated as a priority chain: only the first failing
// check contributes.
const (
	ComplianceParseFailure  = -1.0 // text is not a JSON object
	ComplianceNotInLexicon  = -0.8
	ComplianceChainMismatch = -0.8
	ComplianceAlreadyUsed   = -0.6
	ComplianceValid         = 0.3
)

// ForesightBonus is added when a valid move also declares a valid witness.
const ForesightBonus = 0.3

// Reason strings recorded in RewardBreakdown.Reason for the non-validation tiers.
const (
	ReasonParseFailure = "parse failure"
	ReasonResigned     = "resigned"
)

// DataSource tags training samples and is ignored when scoring.
const DataSource = "chengyu"

// StrategyTier buckets the number of continuations left to the opponent.
type StrategyTier uint8

const (
	TierDeadEnd StrategyTier = iota // 0: no continuation left
	TierScarce                      // 1: 1-5
	TierLimited                     // 2: 6-20
	TierOpen                        // 3: 21+
)

// TierFor returns the tier of a continuation count.
func TierFor(n int) StrategyTier {
	switch {
	case n <= 0:
		return TierDeadEnd
	case n <= 5:
		return TierScarce
	case n <= 20:
		return TierLimited
	default:
		return TierOpen
	}
}

// Score returns the strategy reward for the tier.
func (t StrategyTier) Score() float64 {
	switch t {
	case TierDeadEnd:
		return 0.5
	case TierScarce:
		return 0.3
	case TierLimited:
		return 0.1
	default:
		return 0.0
	}
}
