package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/geoassist/geoassist/pkg/logger"
	"github.com/geoassist/geoassist/pkg/version"
)

// RootCmd builds the geoassist command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "geoassist",
		Version: version.Get().String(),
		Short:   "Geotechnical engineering answering service",
		Long: "geoassist answers geotechnical engineering questions by combining hybrid retrieval " +
			"over a curated knowledge base with settlement and bearing-capacity calculation tools.",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Missing .env is fine; environment variables may come from the shell.
			_ = godotenv.Load()
			logLevel, _ := cmd.Flags().GetString("log-level")
			logJSON, _ := cmd.Flags().GetBool("log-json")
			logSource, _ := cmd.Flags().GetBool("log-source")
			logger.SetupLogger(logLevel, logJSON, logSource)
		},
	}
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "emit logs as JSON")
	root.PersistentFlags().Bool("log-source", false, "include source locations in logs")

	root.AddCommand(
		ServeCmd(),
		AskCmd(),
	)
	return root
}
