package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/danjamk/toolgate/internal/errx"
	"github.com/danjamk/toolgate/pkg/api"
)

// loadConfig resolves the effective config: defaults, then the config
// file (explicit --config or the well-known locations), then any flags
// the invoking command defines.
func loadConfig(cmd *cobra.Command) (*api.Config, error) {
	v := viper.New()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errx.Wrap(ErrReadConfig, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "toolgate"))
		}
		v.AddConfigPath(".toolgate")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, errx.Wrap(ErrReadConfig, err)
			}
		}
	}

	var fileCfg api.Config
	if err := v.Unmarshal(&fileCfg); err != nil {
		return nil, errx.Wrap(ErrParseConfig, err)
	}
	cfg := api.DefaultConfig().Merge(&fileCfg)

	if cmd.Flags().Changed("policy") {
		cfg.Policy, _ = cmd.Flags().GetString("policy")
	}
	if cmd.Flags().Changed("boundary") {
		cfg.Boundary, _ = cmd.Flags().GetBool("boundary")
	}
	if noAudit, _ := cmd.Flags().GetBool("no-audit"); noAudit {
		if cfg.Audit == nil {
			cfg.Audit = &api.AuditConfig{}
		}
		cfg.Audit.Disabled = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
