package agent

import engine "github.com/jason-s-yu/idiomchain/engine"

// ScoreResult is the trainer-facing reward: Score plus the breakdown fields
// flattened for the trainer's extra-info log.
type ScoreResult struct {
	Score float64 `json:"score"`
	RewardBreakdown
}

// ComputeScore is the trainer entry point. The data source tag is ignored.
func ComputeScore(lx *engine.Lexicon, _ string, solution, groundTruth string, extra map[string]any) ScoreResult {
	ctx := ResolveGameContext(groundTruth, extra)
	b := ComputeStepReward(lx, solution, ctx.PreviousPhrase, ctx.Used, ctx.RoundNum, ctx.Mode, DefaultRewardConfig())
	return ScoreResult{Score: b.Total, RewardBreakdown: b}
}
