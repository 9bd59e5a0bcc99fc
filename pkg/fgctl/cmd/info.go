package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func NewInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show metadata about the gated artifact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			cl, err := rt.buildClient()
			if err != nil {
				return err
			}
			info, err := cl.FileInfo(cmd.Context())
			if err != nil {
				return fmt.Errorf("info failed: %w", err)
			}

			if rt.OutputFormat() == "json" {
				encoder := json.NewEncoder(rt.Writer())
				encoder.SetIndent("", "  ")
				return encoder.Encode(info)
			}
			w := rt.Writer()
			_, _ = fmt.Fprintf(w, "File:   %s\n", info.FileName)
			_, _ = fmt.Fprintf(w, "URL:    %s\n", info.URL)
			_, _ = fmt.Fprintf(w, "Source: %s\n", info.Source)
			_, _ = fmt.Fprintf(w, "As of:  %s\n", info.Timestamp)
			return nil
		},
	}
	return cmd
}
