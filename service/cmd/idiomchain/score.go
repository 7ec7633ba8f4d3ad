package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jason-s-yu/idiomchain/engine/agent"
)

func newScoreCmd() *cobra.Command {
	var (
		solution    string
		groundTruth string
		extra       string
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one model reply against a game state",
		Long: "Score one model reply. The reply is read from --solution or, when that is\n" +
			"\"-\", from stdin. The game state comes from --extra (JSON extra info) or\n" +
			"--ground-truth (a previous phrase or a JSON-encoded state).",
		RunE: func(cmd *cobra.Command, _ []string) error {
			lx, err := loadLexicon()
			if err != nil {
				return fmt.Errorf("load lexicon: %w", err)
			}
			if solution == "-" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read solution: %w", err)
				}
				solution = string(raw)
			}
			var extraInfo map[string]any
			if extra != "" {
				if err := json.Unmarshal([]byte(extra), &extraInfo); err != nil {
					return fmt.Errorf("parse --extra: %w", err)
				}
			}
			res := agent.ComputeScore(lx, agent.DataSource, solution, groundTruth, extraInfo)
			enc := json.NewEncoder(os.Stdout)
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVar(&solution, "solution", "-", "model reply, or - for stdin")
	cmd.Flags().StringVar(&groundTruth, "ground-truth", "", "previous phrase or JSON game state")
	cmd.Flags().StringVar(&extra, "extra", "", "JSON extra info")
	return cmd
}
