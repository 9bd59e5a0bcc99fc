package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emonxxx11/filegate/pkg/fgctl/client"
)

type Config struct {
	OutputWriter io.Writer
}

type runtimeState struct {
	server       string
	token        string
	caFile       string
	insecure     bool
	outputFormat string
	writer       io.Writer
}

type runtimeKey struct{}

func DefaultConfig() Config {
	return Config{OutputWriter: os.Stdout}
}

func NewRootCommand(cfg Config) *cobra.Command {
	rt := &runtimeState{writer: cfg.OutputWriter}

	root := &cobra.Command{
		Use:   "fgctl",
		Short: "Filegate CLI",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.writer == nil {
				rt.writer = os.Stdout
			}
			if rt.server == "" {
				rt.server = os.Getenv("FGCTL_SERVER")
			}
			if rt.token == "" {
				rt.token = os.Getenv("FGCTL_TOKEN")
			}
			if rt.outputFormat == "" {
				rt.outputFormat = os.Getenv("FGCTL_OUTPUT")
			}
			if !rt.insecure {
				rt.insecure = strings.EqualFold(os.Getenv("FGCTL_INSECURE"), "true")
			}
			if cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}
			if rt.server == "" {
				return errors.New("server is required (use --server or FGCTL_SERVER)")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&rt.server, "server", "", "Filegate server URL")
	root.PersistentFlags().StringVar(&rt.token, "token", "", "Bearer token override")
	root.PersistentFlags().StringVar(&rt.caFile, "ca-file", "", "Path to CA bundle for server verification")
	root.PersistentFlags().BoolVar(&rt.insecure, "insecure-skip-tls-verify", false, "Skip TLS certificate verification")
	root.PersistentFlags().StringVarP(&rt.outputFormat, "output", "o", "", "Output format: text, json")

	root.SetContext(context.WithValue(context.Background(), runtimeKey{}, rt))

	root.AddCommand(
		NewLoginCommand(),
		NewDownloadCommand(),
		NewInfoCommand(),
		NewListCommand(),
		NewUploadCommand(),
		NewVersionCommand(),
	)

	return root
}

func getRuntime(cmd *cobra.Command) (*runtimeState, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtimeState)
	if !ok || rt == nil {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

func (rt *runtimeState) Writer() io.Writer {
	if rt.writer != nil {
		return rt.writer
	}
	return os.Stdout
}

func (rt *runtimeState) OutputFormat() string {
	if rt.outputFormat != "" {
		return rt.outputFormat
	}
	return "text"
}

func (rt *runtimeState) buildClient() (*client.Client, error) {
	opts := []client.Option{client.WithServer(rt.server)}
	if rt.token != "" {
		opts = append(opts, client.WithToken(rt.token))
	}
	if rt.caFile != "" || rt.insecure {
		opts = append(opts, client.WithTLSConfig(rt.caFile, rt.insecure))
	}
	return client.New(opts...)
}
