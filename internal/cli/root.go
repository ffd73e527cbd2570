package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"moviesearch/internal/config"
	"moviesearch/internal/logger"
)

// EnvReadyMarker makes the TUI print ReadyMarker once the program is built
const (
	EnvReadyMarker = "MOVIESEARCH_E2E_TEST"
	ReadyMarker    = "__READY__"
)

// GlobalFlags holds the persistent command-line overrides
type GlobalFlags struct {
	ConfigPath  string
	AppID       string
	APIKey      string
	Index       string
	Host        string
	Debounce    string
	TitleExpr   string
	LogFile     string
	LogLevel    string
	MetricsAddr string
}

// Env holds the process collaborators commands depend on
type Env struct {
	Lookup func(string) (string, bool)
	Keys   config.KeyStore
	// Prompt asks for a secret interactively
	Prompt func(title string) (string, error)
}

// DefaultEnv returns the environment of the running process
func DefaultEnv() Env {
	return Env{
		Lookup: os.LookupEnv,
		Keys:   config.NewKeyStore(),
		Prompt: promptSecret,
	}
}

// NewRootCmd creates the root cobra command
func NewRootCmd(env Env) *cobra.Command {
	var flags GlobalFlags

	cmd := &cobra.Command{
		Use:   "moviesearch",
		Short: "Search a hosted movie index from the terminal",
		Long: "moviesearch is a terminal search client for an Algolia-compatible index.\n" +
			"Type to search; results appear as cards once you stop typing.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, &flags, env)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.ConfigPath, "config", "c", "", "Config file (default "+config.DefaultPath()+")")
	pf.StringVar(&flags.AppID, "app-id", "", "Application id (env "+config.EnvAppID+")")
	pf.StringVar(&flags.APIKey, "api-key", "", "Search API key (env "+config.EnvAPIKey+")")
	pf.StringVarP(&flags.Index, "index", "i", "", "Index name (env "+config.EnvIndex+")")
	pf.StringVar(&flags.Host, "host", "", "Search host URL (env "+config.EnvHost+")")
	pf.StringVar(&flags.Debounce, "debounce", "", "Quiet period before searching, e.g. 300ms (env "+config.EnvDebounce+")")
	pf.StringVar(&flags.TitleExpr, "title-expr", "", "jq expression selecting a hit's title")
	pf.StringVar(&flags.LogFile, "log-file", "", "Log file path")
	pf.StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.MetricsAddr, "metrics-addr", "", "Serve /metrics on this address")

	cmd.AddCommand(newQueryCmd(&flags, env))
	cmd.AddCommand(newKeyCmd(&flags, env))

	return cmd
}

// Execute runs the root command and returns the process exit code
func Execute(ctx context.Context, stdout, stderr io.Writer) int {
	cmd := NewRootCmd(DefaultEnv())
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig merges file, environment and flags. The API key falls back to
// the keyring when still empty; keyring trouble is reported on stderr.
func loadConfig(flags *GlobalFlags, env Env, stderr io.Writer) (*config.Config, error) {
	cfg, err := readConfig(flags, env)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cfg, flags); err != nil {
		return nil, err
	}
	config.ResolveAPIKey(cfg, env.Keys, logger.NewConsoleLogger(stderr))
	return cfg, nil
}

// readConfig reads the config file named by --config, or the default file
// when it exists, with the environment applied
func readConfig(flags *GlobalFlags, env Env) (*config.Config, error) {
	svc := config.NewConfigServiceWithEnv(config.DefaultPath(), env.Lookup)
	if flags.ConfigPath != "" {
		return svc.LoadFromPath(flags.ConfigPath)
	}
	return svc.Load()
}

func applyFlags(cfg *config.Config, flags *GlobalFlags) error {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.AppID, flags.AppID)
	set(&cfg.APIKey, flags.APIKey)
	set(&cfg.IndexName, flags.Index)
	set(&cfg.Host, flags.Host)
	set(&cfg.TitleExpr, flags.TitleExpr)
	set(&cfg.Log.File, flags.LogFile)
	set(&cfg.Log.Level, flags.LogLevel)
	set(&cfg.MetricsAddr, flags.MetricsAddr)

	if flags.Debounce != "" {
		d, err := config.ParseDebounce(flags.Debounce)
		if err != nil {
			return fmt.Errorf("invalid --debounce: %w", err)
		}
		cfg.UISettings.Debounce = config.Duration(d)
	}
	return nil
}

// promptSecret asks for a secret with masked input
func promptSecret(title string) (string, error) {
	var result string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&result).
		Validate(func(s string) error {
			if s == "" {
				return errors.New("this field is required")
			}
			return nil
		}).
		Run()
	return result, err
}
