package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/licensegate/pkg/cache"
	"github.com/matzehuels/licensegate/pkg/checker"
	"github.com/matzehuels/licensegate/pkg/integrations/github"
	"github.com/matzehuels/licensegate/pkg/integrations/npm"
	"github.com/matzehuels/licensegate/pkg/integrations/pypi"
	"github.com/matzehuels/licensegate/pkg/manifest"
	"github.com/matzehuels/licensegate/pkg/policy"
	"github.com/matzehuels/licensegate/pkg/source"
)

// defaultCacheTTL is how long registry responses stay cached.
const defaultCacheTTL = 24 * time.Hour

// checkOpts holds the command-line flags for the check command.
type checkOpts struct {
	policyName  string // named policy to check against
	policyFile  string // TOML file with policy definitions
	jsonOut     bool   // emit JSON instead of styled output
	refresh     bool   // bypass the registry cache
	noCache     bool   // disable caching entirely
	strict      bool   // exit non-zero when violations are found
	interactive bool   // browse results in a TUI
}

// newCheckCmd creates the check command. The argument is auto-detected:
// an existing local file is treated as a manifest upload, anything else as
// a GitHub repository reference.
func newCheckCmd() *cobra.Command {
	opts := checkOpts{}

	cmd := &cobra.Command{
		Use:   "check <manifest-or-repo>",
		Short: "Check dependency licenses against a policy",
		Long: `Check a dependency manifest or GitHub repository for license compliance.

The command auto-detects whether you're providing a local manifest file or
a repository reference.

Examples:
  licensegate check requirements.txt
  licensegate check package.json --policy strict --policy-file policies.toml
  licensegate check github.com/psf/requests
  licensegate check owner/repo --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runCheck(c.Context(), &opts, args[0])
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.policyName, "policy", "p", "", "policy name (defaults to the built-in policy)")
	cmd.PersistentFlags().StringVar(&opts.policyFile, "policy-file", "", "TOML file with policy definitions")
	cmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "output results as JSON")
	cmd.PersistentFlags().BoolVar(&opts.refresh, "refresh", false, "bypass the registry cache")
	cmd.PersistentFlags().BoolVar(&opts.noCache, "no-cache", false, "disable caching entirely")
	cmd.PersistentFlags().BoolVar(&opts.strict, "strict", false, "exit non-zero when non-compliant dependencies are found")
	cmd.PersistentFlags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse results interactively")

	cmd.AddCommand(checkFileCmd(&opts))
	cmd.AddCommand(checkRepoCmd(&opts))

	return cmd
}

// checkFileCmd creates the explicit "check file" subcommand, bypassing
// auto-detection.
func checkFileCmd(opts *checkOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "file <manifest>",
		Short: "Check a local manifest file",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runCheckFile(c.Context(), opts, args[0])
		},
	}
}

// checkRepoCmd creates the explicit "check repo" subcommand, bypassing
// auto-detection.
func checkRepoCmd(opts *checkOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "repo <owner/name-or-url>",
		Short: "Check a GitHub repository snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runCheckRepo(c.Context(), opts, args[0])
		},
	}
}

// runCheck auto-detects the target: an existing local file is checked as
// an upload, anything else as a repository reference.
func runCheck(ctx context.Context, opts *checkOpts, target string) error {
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		return runCheckFile(ctx, opts, target)
	}
	return runCheckRepo(ctx, opts, target)
}

func runCheckFile(ctx context.Context, opts *checkOpts, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	req := checker.Request{
		Policy: opts.policyName,
		Upload: &source.Upload{Filename: filepath.Base(path), Data: data},
	}
	return runRequest(ctx, opts, path, req)
}

func runCheckRepo(ctx context.Context, opts *checkOpts, ref string) error {
	req := checker.Request{Policy: opts.policyName, RepoURL: ref}
	return runRequest(ctx, opts, ref, req)
}

func runRequest(ctx context.Context, opts *checkOpts, target string, req checker.Request) error {
	logger := loggerFromContext(ctx)

	policies, err := loadPolicies(opts.policyFile)
	if err != nil {
		return err
	}

	backend, err := cacheBackend(opts.noCache)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer backend.Close()

	c := buildChecker(policies, backend, opts.refresh, logger)

	track := newProgress(logger)
	records, err := c.Check(ctx, req)
	if err != nil {
		return err
	}
	track.done(fmt.Sprintf("Checked %d dependencies", len(records)))

	switch {
	case opts.jsonOut:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return err
		}
	case opts.interactive:
		if err := browseRecords(target, records); err != nil {
			return err
		}
	default:
		printRecords(records)
	}

	if opts.strict {
		for _, r := range records {
			if r.Status == policy.StatusNonCompliant {
				return fmt.Errorf("non-compliant dependencies found")
			}
		}
	}
	return nil
}

// loadPolicies reads a policy file, or returns the built-in set when no
// file is given.
func loadPolicies(path string) (*policy.Set, error) {
	if path == "" {
		return policy.NewSet(), nil
	}
	return policy.LoadFile(path)
}

// cacheBackend selects the cache implementation for CLI runs.
func cacheBackend(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache("")
}

// buildChecker assembles the checker with registry clients for every
// supported ecosystem.
func buildChecker(policies *policy.Set, backend cache.Cache, refresh bool, logger *log.Logger) *checker.Checker {
	logf := func(msg string, args ...any) { logger.Debugf(msg, args...) }

	pypiClient := pypi.NewClient(backend, defaultCacheTTL)
	pypiClient.SetLogf(logf)
	npmClient := npm.NewClient(backend, defaultCacheTTL)
	npmClient.SetLogf(logf)

	archive := github.NewArchiveClient()
	archive.SetLogf(logf)

	resolvers := map[manifest.Kind]checker.LicenseResolver{
		manifest.PythonRequirements: pypiClient,
		manifest.NodePackageJSON:    npmClient,
	}
	return checker.New(policies, resolvers,
		checker.WithLocator(source.NewLocator(archive)),
		checker.WithRefresh(refresh),
		checker.WithLogf(func(msg string, args ...any) { logger.Warnf(msg, args...) }),
	)
}

// printRecords renders verdicts as a styled list with a summary line.
func printRecords(records []checker.Record) {
	if len(records) == 0 {
		printInfo("No dependencies found")
		return
	}

	counts := map[policy.Status]int{}
	for _, r := range records {
		counts[r.Status]++

		style, icon := statusStyle(r.Status)
		fmt.Printf("%s %s %s %s\n",
			style.Render(icon),
			StyleValue.Render(r.Dependency),
			StyleDim.Render(r.License),
			style.Render(string(r.Status)),
		)
	}
	fmt.Println()
	printSummary(counts)
}
