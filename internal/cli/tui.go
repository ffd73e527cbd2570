package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"moviesearch/internal/ui"
)

func runTUI(cmd *cobra.Command, flags *GlobalFlags, env Env) error {
	cfg, err := loadConfig(flags, env, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	app, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	if err := app.serveMetrics(ctx); err != nil {
		return err
	}

	model := ui.NewModel(ctx, ui.Options{
		Config:    cfg,
		Bus:       app.Bus,
		Searcher:  app.Searcher,
		Projector: app.Projector,
		Logger:    app.Logger.Named("ui"),
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	model.SetProgram(p)

	if v, ok := env.Lookup(EnvReadyMarker); ok && v == "1" {
		fmt.Fprintln(cmd.OutOrStdout(), ReadyMarker)
	}

	app.Logger.Info("starting UI")
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			app.Logger.Info("UI stopped by signal")
			return nil
		}
		app.Logger.Error("error running program", zap.Error(err))
		return fmt.Errorf("error running program: %w", err)
	}
	app.Logger.Info("UI exited normally")
	return nil
}
