package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/paw-chain/puzzlehunt/app/telemetry"
)

const (
	flagHome         = "home"
	flagChainID      = "chain-id"
	flagLogLevel     = "log-level"
	flagLogFormat    = "log-format"
	flagMetricsAddr  = "metrics-addr"
	flagOTLPEndpoint = "otlp-endpoint"
	flagSampleRate   = "trace-sample-rate"

	envPrefix      = "PUZZLE"
	configFileName = "puzzled"
	defaultChainID = "puzzle-local-1"
)

// DefaultHome is the default configuration directory of puzzled.
var DefaultHome = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".puzzled"
	}
	return filepath.Join(home, ".puzzled")
}()

type runtimeKey struct{}

// runtime carries state prepared by the root command for subcommands.
type runtime struct {
	v         *viper.Viper
	logger    log.Logger
	telemetry *telemetry.Provider
}

func runtimeFrom(cmd *cobra.Command) *runtime {
	if rt, ok := cmd.Context().Value(runtimeKey{}).(*runtime); ok {
		return rt
	}
	return &runtime{v: viper.New(), logger: log.NewNopLogger()}
}

// NewRootCmd creates the root command for puzzled.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "puzzled",
		Short: "Puzzle hunt judge and relay toolkit",
		Long: `puzzled generates judge keys, signs and verifies result attestations,
and replays game scenarios against an in-memory puzzle ledger.

Every flag can also be set through a PUZZLE_* environment variable
(for example PUZZLE_CHAIN_ID) or a puzzled.yaml file in the home directory.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			if err := loadConfig(v, cmd); err != nil {
				return err
			}

			logger, err := newLogger(v.GetString(flagLogLevel), v.GetString(flagLogFormat))
			if err != nil {
				return err
			}

			provider, err := telemetry.NewProvider(telemetry.Config{
				Enabled:      v.GetString(flagOTLPEndpoint) != "",
				OTLPEndpoint: v.GetString(flagOTLPEndpoint),
				SampleRate:   v.GetFloat64(flagSampleRate),
				ChainID:      v.GetString(flagChainID),

				PrometheusEnabled: v.GetString(flagMetricsAddr) != "",
			})
			if err != nil {
				return err
			}

			if addr := v.GetString(flagMetricsAddr); addr != "" {
				StartPrometheusServer(addr, logger)
			}

			rt := &runtime{v: v, logger: logger, telemetry: provider}
			cmd.SetContext(context.WithValue(cmd.Context(), runtimeKey{}, rt))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			rt := runtimeFrom(cmd)
			if rt.telemetry == nil {
				return nil
			}
			return rt.telemetry.Shutdown(cmd.Context())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String(flagHome, DefaultHome, "directory for config and data")
	pf.String(flagChainID, defaultChainID, "chain id bound into attestations")
	pf.String(flagLogLevel, "info", "log level (trace|debug|info|warn|error)")
	pf.String(flagLogFormat, "plain", "log format (plain|json)")
	pf.String(flagMetricsAddr, "", "serve Prometheus metrics on this address, e.g. :26660")
	pf.String(flagOTLPEndpoint, "", "OTLP/HTTP endpoint for trace export")
	pf.Float64(flagSampleRate, 1.0, "trace sampling ratio")

	rootCmd.AddCommand(
		KeysCmd(),
		AttestCmd(),
		SimulateCmd(),
	)

	rootCmd.SetContext(context.Background())
	return rootCmd
}

// loadConfig binds flags, PUZZLE_* variables and an optional config file.
func loadConfig(v *viper.Viper, cmd *cobra.Command) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(v.GetString(flagHome))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return applyConfig(v, cmd.Flags())
}

// applyConfig copies config file and environment values onto flags the user
// did not set, so subcommands can keep reading their own flags.
func applyConfig(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || !v.IsSet(f.Name) {
			return
		}
		if setErr := fs.Set(f.Name, v.GetString(f.Name)); setErr != nil {
			err = fmt.Errorf("invalid value for %s: %w", f.Name, setErr)
		}
	})
	return err
}

func newLogger(level, format string) (log.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := []log.Option{log.LevelOption(lvl)}
	switch format {
	case "json":
		opts = append(opts, log.OutputJSONOption())
	case "plain", "":
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
	return log.NewLogger(os.Stderr, opts...), nil
}
