package agent

import (
	engine "github.com/jason-s-yu/idiomchain/engine"
)

// RewardConfig holds the tunable penalties of the step reward.
type RewardConfig struct {
	RoundPenalty float64 // added to every step, favours shorter games
	FailPenalty  float64 // compliance term for a self-declared resignation
}

// DefaultRewardConfig returns the standard penalties.
func DefaultRewardConfig() RewardConfig {
	return RewardConfig{
		RoundPenalty: -0.1,
		FailPenalty:  -1.0,
	}
}

// RewardBreakdown is the per-step reward with each component exposed for
// logging. ContinuationCount is -1 unless the move was valid.
type RewardBreakdown struct {
	RoundNum          int     `json:"round_num"`
	RoundPenalty      float64 `json:"round_penalty"`
	Compliance        float64 `json:"compliance"`
	Strategy          float64 `json:"strategy"`
	Foresight         float64 `json:"foresight"`
	Total             float64 `json:"total"`
	Valid             bool    `json:"valid"`
	Reason            string  `json:"reason"`
	Word              string  `json:"word"`
	ContinuationCount int     `json:"continuation_count"`
}

// ComputeStepReward scores one raw model response given the phrase it had to
// continue and the phrases already used (start phrase included).
//
//	total = round_penalty + compliance [+ strategy + foresight if valid]
//
// Compliance is the first matching tier of: parse failure, resignation,
// not in lexicon, chain mismatch, already used, valid. Chaining goes through
// the same Lexicon.Matches used by live matches.
func ComputeStepReward(lx *engine.Lexicon, text, previous string, used engine.PhraseSet, round int, mode engine.Mode, cfg RewardConfig) RewardBreakdown {
	b := RewardBreakdown{
		RoundNum:          round,
		RoundPenalty:      cfg.RoundPenalty,
		ContinuationCount: -1,
	}

	claim, ok := ParseMoveText(text)
	if !ok {
		return b.reject(ComplianceParseFailure, ReasonParseFailure)
	}
	b.Word = claim.Phrase

	if !claim.Success {
		return b.reject(cfg.FailPenalty, ReasonResigned)
	}
	if !lx.Exists(claim.Phrase) {
		return b.reject(ComplianceNotInLexicon, engine.ErrNotInLexicon.Error())
	}
	if err := lx.Matches(mode, previous, claim.Phrase); err != nil {
		return b.reject(ComplianceChainMismatch, err.Error())
	}
	if used.Contains(claim.Phrase) {
		return b.reject(ComplianceAlreadyUsed, engine.ErrAlreadyUsed.Error())
	}

	b.Valid = true
	b.Compliance = ComplianceValid

	after := used.With(claim.Phrase)
	b.ContinuationCount = lx.CountContinuations(mode, claim.Phrase, after)
	b.Strategy = TierFor(b.ContinuationCount).Score()

	if claim.Witness != "" && lx.Validate(mode, claim.Witness, claim.Phrase, after) == nil {
		b.Foresight = ForesightBonus
	}

	b.Total = b.RoundPenalty + b.Compliance + b.Strategy + b.Foresight
	return b
}

func (b RewardBreakdown) reject(compliance float64, reason string) RewardBreakdown {
	b.Compliance = compliance
	b.Reason = reason
	b.Total = b.RoundPenalty + compliance
	return b
}
