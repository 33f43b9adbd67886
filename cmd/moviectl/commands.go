package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Clark-Hu/moviegrid/internal/catalog"
	"github.com/Clark-Hu/moviegrid/internal/config"
	"github.com/Clark-Hu/moviegrid/internal/domain"
	"github.com/Clark-Hu/moviegrid/internal/logging"
	"github.com/Clark-Hu/moviegrid/internal/repository"
	"github.com/Clark-Hu/moviegrid/internal/tmdb"
)

// app bundles what every subcommand needs.
type app struct {
	cfg     config.Config
	svc     *catalog.Service
	backend *repository.Backend
	logger  *logrus.Logger
}

func newRootCmd() *cobra.Command {
	var a app

	root := &cobra.Command{
		Use:           "moviectl",
		Short:         "Browse the cached popular-movies list from the terminal",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.New(cfg.LogLevel)
			a.logger.SetOutput(cmd.ErrOrStderr())

			backend, err := repository.Open(cmd.Context(), cfg, a.logger)
			if err != nil {
				return err
			}
			remote, err := tmdb.NewHTTPClient(cfg.TMDBURL, cfg.TMDBAPIKey, time.Duration(cfg.TMDBTimeoutSecs)*time.Second, a.logger)
			if err != nil {
				backend.Close()
				return err
			}
			a.backend = backend
			a.svc = catalog.New(backend.Movies, remote, catalog.WithLogger(a.logger))
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.backend != nil {
				a.backend.Close()
			}
		},
	}

	root.AddCommand(newListCmd(&a), newYearsCmd(&a))
	return root
}

type listOptions struct {
	page  int
	pages int
	sort  string
	dir   string
	years []string
}

func newListCmd(a *app) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List movies, fetching from upstream when nothing is cached",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.RequireRemote(); err != nil {
				return err
			}
			q, err := opts.query()
			if err != nil {
				return err
			}
			return runList(cmd.Context(), cmd.OutOrStdout(), a.svc, q, opts)
		},
	}

	cmd.Flags().IntVar(&opts.page, "page", 1, "page to request on a cache miss")
	cmd.Flags().IntVar(&opts.pages, "pages", 1, "load pages 1..N in sequence, ignoring --page")
	cmd.Flags().StringVar(&opts.sort, "sort", "name", "sort key: name or releaseDate")
	cmd.Flags().StringVar(&opts.dir, "dir", "asc", "sort direction: asc or desc")
	cmd.Flags().StringSliceVar(&opts.years, "year", nil, "release years to keep (repeatable or comma-separated)")
	return cmd
}

func (o listOptions) query() (domain.Query, error) {
	by, err := domain.ParseSortBy(o.sort)
	if err != nil {
		return domain.Query{}, err
	}
	dir, err := domain.ParseSortDirection(o.dir)
	if err != nil {
		return domain.Query{}, err
	}
	if o.page < 1 || o.pages < 1 {
		return domain.Query{}, fmt.Errorf("--page and --pages must be positive")
	}
	return domain.Query{SortBy: by, Direction: dir, Years: o.years}, nil
}

// runList loads a single page, or with --pages drives a Pager from page 1:
// the first page is a fresh load and later pages behave like scrolling to the
// end of the list.
func runList(ctx context.Context, out io.Writer, svc *catalog.Service, q domain.Query, opts listOptions) error {
	if opts.pages <= 1 {
		return drain(out, opts.page, svc.Load(ctx, opts.page, q))
	}

	pager := catalog.NewPager(svc, q)
	var failed error
	for i := 0; i < opts.pages; i++ {
		var ch <-chan domain.Resource
		if i == 0 {
			ch = pager.Reset(ctx, q)
		} else {
			ch = pager.Next(ctx)
		}
		if err := drain(out, pager.Page(), ch); err != nil {
			failed = err
		}
	}
	return failed
}

func drain(out io.Writer, page int, states <-chan domain.Resource) error {
	var failed error
	for res := range states {
		if err := render(out, page, res); err != nil {
			failed = err
		}
	}
	return failed
}

func newYearsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List the release years present in the cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			years, err := a.svc.Years(cmd.Context())
			if err != nil {
				return err
			}
			sort.Sort(sort.Reverse(sort.StringSlice(years)))
			for _, y := range years {
				fmt.Fprintln(cmd.OutOrStdout(), y)
			}
			return nil
		},
	}
}
