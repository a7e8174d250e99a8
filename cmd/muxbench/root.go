package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "muxbench",
	Short: "Muxbench exercises a shared capacity-limited consumer with concurrent channel traffic.",
	Long: `Muxbench runs several independent traffic pipelines against one ` +
		`capacity-limited consumer, one pipeline per channel, and verifies ` +
		`every completion. The basic, burst, and saturation scenarios differ ` +
		`in pacing and in when the run is allowed to stop.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Exit runs through atexit so registered flush handlers,
// such as the trace recorder's, still fire on failure.
func Execute() {
	cobra.OnInitialize(loadEnv)

	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func loadEnv() {
	// A missing .env file is fine.
	_ = godotenv.Load()
}
