package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rentals-dashboard/app/cache"
	"rentals-dashboard/app/config"
)

// cachedPaths are the dashboard pages whose backend lists are cached.
var cachedPaths = []string{"/dashboard/users", "/dashboard/estates"}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var redisURL string

	cmd := &cobra.Command{
		Use:   "revalidate [path...]",
		Short: "Drop cached dashboard pages from the shared Redis cache",
		Long: "Drops the cached backend lists behind the given dashboard paths, or every cached path when none is given.\n" +
			"Use it after editing data directly in the backend.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := pathsFor(args)
			if err != nil {
				return err
			}
			if redisURL == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				redisURL = cfg.Cache.RedisURL
			}
			if redisURL == "" {
				return errors.New("no Redis configured: set REDIS_URL or pass --redis")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			store, err := cache.NewRedis(ctx, redisURL, 0)
			if err != nil {
				return fmt.Errorf("connect to redis: %w", err)
			}
			defer store.Close()

			return revalidate(ctx, store, paths, out)
		},
	}
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL (defaults to REDIS_URL)")
	return cmd
}

func pathsFor(args []string) ([]string, error) {
	if len(args) == 0 {
		return cachedPaths, nil
	}
	for _, p := range args {
		if !strings.HasPrefix(p, "/dashboard/") {
			return nil, fmt.Errorf("invalid path %q: must start with /dashboard/", p)
		}
	}
	return args, nil
}

func revalidate(ctx context.Context, r cache.Revalidator, paths []string, out io.Writer) error {
	for _, p := range paths {
		if err := r.Revalidate(ctx, p); err != nil {
			return fmt.Errorf("revalidate %s: %w", p, err)
		}
		fmt.Fprintf(out, "revalidated %s\n", p)
	}
	return nil
}
