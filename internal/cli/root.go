package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with
// values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the licensegate CLI and returns an error if any command fails.
//
// The function sets up the root command with all subcommands (check, serve,
// policies, cache), configures logging based on the --verbose flag, and
// executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI with the given context. Cancellation stops
// in-flight registry requests and shuts the server down gracefully.
func ExecuteContext(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "licensegate",
		Short:        "licensegate checks dependency licenses against policies",
		Long:         `licensegate reads a dependency manifest (requirements.txt or package.json), looks up each dependency's license from its package registry, and classifies it against an allow/disallow policy.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("licensegate %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newPoliciesCmd())
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(ctx)
}
