package main

import (
	"bufio"
	"fmt"

	"github.com/opst/grammarfab/pkg/correction"
	"github.com/opst/grammarfab/pkg/inference/provider"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCorrectCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "correct [text...]",
		Short: "correct grammar of texts",
		Long: `Correct grammar of each text, and print them line by line.

When no texts are given, each line of stdin is corrected.
Without --config, the built-in rules are used and no model is asked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pipeline := correction.New(nil)
			if s.configPath != "" {
				conf, err := s.config()
				if err != nil {
					return err
				}
				p, err := provider.NewPipeline(ctx, conf.Correction())
				if err != nil {
					return err
				}
				pipeline = p
			}
			s.logger.Debug(
				"pipeline is ready",
				zap.Int("rules", pipeline.Table().Len()),
				zap.Bool("model", pipeline.Inferencer() != nil),
			)

			out := cmd.OutOrStdout()
			if 0 < len(args) {
				for _, text := range args {
					fmt.Fprintln(out, pipeline.Correct(ctx, text))
				}
				return nil
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				fmt.Fprintln(out, pipeline.Correct(ctx, scanner.Text()))
			}
			return scanner.Err()
		},
	}
}
