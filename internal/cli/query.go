package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"moviesearch/internal/domain"
	"moviesearch/internal/eventbus"
)

func newQueryCmd(flags *GlobalFlags, env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "query <text...>",
		Short: "Run one search and print id and title per hit",
		Example: `  moviesearch query the matrix
  moviesearch query --index movies_fr amelie`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return nil
			}

			cfg, err := loadConfig(flags, env, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			req := domain.SearchRequest{Seq: 1, Index: cfg.IndexName, Query: query}
			app.Bus.Publish(eventbus.SearchDispatchedEvent{Request: req})

			start := time.Now()
			hits, err := app.Searcher.Search(cmd.Context(), cfg.IndexName, query)
			app.Bus.Publish(eventbus.SearchSettledEvent{
				Request:  req,
				Hits:     len(hits),
				Duration: time.Since(start),
				Err:      err,
			})
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, item := range app.Projector.Project(hits) {
				fmt.Fprintf(out, "%s\t%s\n", item.ID, item.Title)
			}
			return nil
		},
	}
}
