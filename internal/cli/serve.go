package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/licensegate/internal/server"
	"github.com/matzehuels/licensegate/pkg/cache"
	"github.com/matzehuels/licensegate/pkg/report"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr       string // listen address
	policyFile string // TOML file with policy definitions
	redisAddr  string // redis cache backend, empty for file cache
	mongoURI   string // mongo report history, empty to disable
	noCache    bool   // disable registry caching
}

// newServeCmd creates the serve command, which runs the HTTP API.
func newServeCmd() *cobra.Command {
	opts := serveOpts{addr: ":8080"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the license check HTTP API",
		Long: `Run the HTTP API server.

The API exposes POST /api/check for running compliance checks, plus
GET /api/policies and GET /healthz. When --mongo-uri is set, check
results are saved and served from GET /api/reports.

Examples:
  licensegate serve
  licensegate serve --addr :9090 --policy-file policies.toml
  licensegate serve --redis localhost:6379 --mongo-uri mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runServe(c.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.policyFile, "policy-file", "", "TOML file with policy definitions")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "redis address for the registry cache (default: file cache)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "mongodb URI for report history (default: disabled)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable registry caching")

	return cmd
}

func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	policies, err := loadPolicies(opts.policyFile)
	if err != nil {
		return err
	}

	backend, err := serveCacheBackend(ctx, opts)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer backend.Close()

	var store report.Store
	if opts.mongoURI != "" {
		store, err = report.NewMongoStore(ctx, opts.mongoURI)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		defer store.Close(context.Background())
		logger.Info("report history enabled", "uri", opts.mongoURI)
	}

	c := buildChecker(policies, backend, false, logger)
	srv := server.New(c, policies, store, logger)
	return srv.ListenAndServe(ctx, opts.addr)
}

// serveCacheBackend selects the cache implementation for the server.
func serveCacheBackend(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	switch {
	case opts.noCache:
		return cache.NewNullCache(), nil
	case opts.redisAddr != "":
		return cache.NewRedisCache(ctx, opts.redisAddr)
	default:
		return cache.NewFileCache("")
	}
}
