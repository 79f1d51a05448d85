package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bite/internal/application"
	"bite/internal/bootstrap"
	"bite/internal/config"
)

var (
	dataDir string
	env     *bootstrap.Env
)

var rootCmd = &cobra.Command{
	Use:   "bite-cli",
	Short: "CLI for tagging images with hierarchical tags",
	Long: `bite-cli manages a database of images identified by content hash and
tagged with colon-separated hierarchical tags (animal:cat:tabby).

Assigning a tag also assigns its ancestors and every tag it implies.
Substitutions rewrite typed tags, implications add tags automatically.
Every change is written back to the data directory immediately.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		env, err = bootstrap.Open(dataDir)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if env == nil {
			return nil
		}
		return env.Close()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data", "d", config.DataDir(), "path to the data directory")
}

// GetSession returns the loaded database session
func GetSession() *application.Session {
	return env.Session
}
