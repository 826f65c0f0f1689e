package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/polaris/pkg/cache"
	"github.com/matzehuels/polaris/pkg/observability"
	"github.com/matzehuels/polaris/pkg/pipeline"
	"github.com/matzehuels/polaris/pkg/server"
	"github.com/matzehuels/polaris/pkg/storage"
)

// Environment variables selecting the server backends.
const (
	envRedisURL = "POLARIS_REDIS_URL"
	envMongoURI = "POLARIS_MONGO_URI"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags   optionFlags
		addr    string
		dataDir string
		memory  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the radar HTTP API",
		Long: `Run the radar HTTP API.

Radars are stored in MongoDB when ` + envMongoURI + ` is set, in memory with
--memory, and as JSON files under --data-dir otherwise. Rendered artifacts
are cached in Redis when ` + envRedisURL + ` is set, and in the local cache
directory otherwise. Prometheus metrics are served at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve()
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), addr, dataDir, memory, opts)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "radar directory for the file store (default ~/.config/polaris/radars)")
	cmd.Flags().BoolVar(&memory, "memory", false, "keep radars in memory only")
	flags.register(cmd, true)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, dataDir string, memory bool, opts pipeline.Options) error {
	check := opts.Merge(pipeline.Options{})
	if err := check.ValidateAndSetDefaults(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	store, err := c.openStore(ctx, dataDir, memory)
	if err != nil {
		return err
	}
	defer store.Close()

	artifacts, err := c.openArtifactCache(ctx)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(artifacts, nil, c.Logger)
	defer runner.Close()

	metrics, err := observability.NewMetrics(nil)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	metrics.Install()

	srv := server.New(store, runner,
		server.WithLogger(c.Logger),
		server.WithDefaults(opts),
		server.WithMetricsHandler(metrics.Handler()),
	)
	printInfo("Serving on %s", StyleHighlight.Render(addr))
	return srv.ListenAndServe(ctx, addr)
}

func (c *CLI) openStore(ctx context.Context, dataDir string, memory bool) (storage.Store, error) {
	if uri := os.Getenv(envMongoURI); uri != "" {
		store, err := storage.NewMongoStore(ctx, uri)
		if err != nil {
			return nil, err
		}
		c.Logger.Info("using mongo store", "database", storage.DefaultMongoDatabase)
		return store, nil
	}
	if memory {
		c.Logger.Info("using memory store")
		printWarning("Radars are kept in memory and lost when the server stops")
		return storage.NewMemoryStore(), nil
	}
	store, err := storage.NewFileStore(dataDir)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using file store", "dir", store.Dir())
	return store, nil
}

func (c *CLI) openArtifactCache(ctx context.Context) (cache.Cache, error) {
	if url := os.Getenv(envRedisURL); url != "" {
		rc, err := cache.NewRedisCache(url)
		if err != nil {
			return nil, err
		}
		if err := rc.Ping(ctx); err != nil {
			rc.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.Logger.Info("using redis cache")
		return rc, nil
	}
	return newCache(false)
}
