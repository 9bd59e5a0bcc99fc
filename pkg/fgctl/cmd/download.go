package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewDownloadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Resolve the download location of the gated artifact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			cl, err := rt.buildClient()
			if err != nil {
				return err
			}
			location, err := cl.ArtifactURL(cmd.Context())
			if err != nil {
				return fmt.Errorf("download failed: %w", err)
			}
			_, _ = fmt.Fprintln(rt.Writer(), location)
			return nil
		},
	}
	return cmd
}
