package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	langfuse "github.com/curacel/langfuse-go"
	"github.com/curacel/langfuse-go/pkg/config"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configFile string
	host       string
	jsonOutput bool
	verbose    bool
	timeout    time.Duration

	// newClient is replaced in tests.
	newClient func(cfg config.Config, opts ...langfuse.Option) (*langfuse.Client, error)
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{newClient: langfuse.New}

	cmd := &cobra.Command{
		Use:   "langfuse-trace",
		Short: "Inspect configuration, send demo traces and fetch prompts",
		Long: `langfuse-trace talks to a Langfuse project with the settings of the Go SDK.

Configuration is read from LANGFUSE_* environment variables, or from a YAML
file given with --config.`,
		Version:       fmt.Sprintf("%s (%s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&g.configFile, "config", "c", "", "YAML configuration file")
	flags.StringVar(&g.host, "host", "", "Langfuse host, overrides the configuration")
	flags.BoolVar(&g.jsonOutput, "json", false, "Output command results in JSON format")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "Log SDK activity at debug level")
	flags.DurationVar(&g.timeout, "timeout", 30*time.Second, "Deadline for the whole command")

	cmd.AddCommand(
		newConfigCmd(g),
		newDemoCmd(g),
		newPromptCmd(g),
		newCircuitCmd(g),
	)
	return cmd
}

// loadConfig reads the file named by --config, or the environment, and
// applies --host.
func (g *globalOptions) loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if g.configFile != "" {
		cfg, err = config.LoadFile(g.configFile)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return config.Config{}, err
	}
	if g.host != "" {
		cfg.Host = g.host
	}
	return cfg, nil
}

// logger builds the zap logger handed to the SDK. Logs go to stderr so they
// never mix with command output.
func (g *globalOptions) logger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{"stderr"}
	zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if g.verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zc.Build()
}

// client loads the configuration and builds a client logging through zap.
// The returned cleanup shuts the client down and flushes the logger.
func (g *globalOptions) client(cmd *cobra.Command, extra ...langfuse.Option) (*langfuse.Client, func(), error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	zl, err := g.logger()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	adapter := langfuse.NewZapAdapter(zl).With("cmd", cmd.Name())

	opts := append([]langfuse.Option{langfuse.WithLogger(adapter)}, extra...)
	client, err := g.newClient(cfg, opts...)
	if err != nil {
		_ = adapter.Sync()
		return nil, nil, err
	}
	cleanup := func() {
		if err := client.Shutdown(cmd.Context()); err != nil && err != langfuse.ErrClientClosed {
			adapter.Warn("shutdown", "error", err)
		}
		_ = adapter.Sync()
	}
	return client, cleanup, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
