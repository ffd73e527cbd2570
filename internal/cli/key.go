package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"moviesearch/internal/config"
)

func newKeyCmd(flags *GlobalFlags, env Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the API key stored in the OS keyring",
	}
	cmd.AddCommand(newKeySetCmd(flags, env))
	cmd.AddCommand(newKeyDeleteCmd(flags, env))
	return cmd
}

func newKeySetCmd(flags *GlobalFlags, env Env) *cobra.Command {
	var apiKey string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the API key for the configured application id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := resolveAppID(flags, env)
			if err != nil {
				return err
			}

			if apiKey == "" {
				if env.Prompt == nil {
					return errors.New("no --key given and no prompt available")
				}
				apiKey, err = env.Prompt(fmt.Sprintf("API key for %s", appID))
				if err != nil {
					return err
				}
			}
			if apiKey == "" {
				return errors.New("api key must not be empty")
			}

			if err := env.Keys.Set(appID, apiKey); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key stored for %s\n", appID)
			return nil
		},
	}
	cmd.Flags().StringVar(&apiKey, "key", "", "API key (prompted when omitted)")
	return cmd
}

func newKeyDeleteCmd(flags *GlobalFlags, env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Remove the stored API key for the configured application id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := resolveAppID(flags, env)
			if err != nil {
				return err
			}
			if err := env.Keys.Delete(appID); err != nil {
				if errors.Is(err, config.ErrKeyNotFound) {
					return fmt.Errorf("no api key stored for %s", appID)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key removed for %s\n", appID)
			return nil
		},
	}
}

// resolveAppID loads the config only for its application id; the key
// commands run before a key exists, so full validation does not apply
func resolveAppID(flags *GlobalFlags, env Env) (string, error) {
	cfg, err := readConfig(flags, env)
	if err != nil {
		return "", err
	}
	if flags.AppID != "" {
		cfg.AppID = flags.AppID
	}
	if cfg.AppID == "" {
		return "", fmt.Errorf("application id is required (--app-id or %s)", config.EnvAppID)
	}
	return cfg.AppID, nil
}
