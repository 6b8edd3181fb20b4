package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// AskCmd answers a single question from the command line and exits.
func AskCmd() *cobra.Command {
	var showTrace bool
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer one question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			application, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			defer application.close(context.Background())

			answer := application.orchestrator.Run(cmd.Context(), question)
			fmt.Fprintln(os.Stdout, answer.Text)
			if len(answer.Citations) > 0 {
				fmt.Fprintln(os.Stdout, "\nSources:")
				for _, c := range answer.Citations {
					if c.PageIndex != nil {
						fmt.Fprintf(os.Stdout, "- %s (page %d, score %.3f)\n", c.SourceName, *c.PageIndex, c.ConfidenceScore)
					} else {
						fmt.Fprintf(os.Stdout, "- %s (score %.3f)\n", c.SourceName, c.ConfidenceScore)
					}
				}
			}
			if showTrace && answer.Trace != nil {
				encoded, err := json.MarshalIndent(answer.Trace, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "\nTrace:\n%s\n", encoded)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showTrace, "trace", false, "print the execution trace")
	return cmd
}
