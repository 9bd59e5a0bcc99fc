package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func NewUploadCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a local file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			if name == "" {
				name = filepath.Base(args[0])
			}

			cl, err := rt.buildClient()
			if err != nil {
				return err
			}
			result, err := cl.Upload(cmd.Context(), name, data)
			if err != nil {
				return fmt.Errorf("upload failed: %w", err)
			}

			if rt.OutputFormat() == "json" {
				encoder := json.NewEncoder(rt.Writer())
				encoder.SetIndent("", "  ")
				return encoder.Encode(result)
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Uploaded %s (%d bytes) at %s\n", result.FileName, result.FileSize, result.UploadedAt)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Remote file name (defaults to the local base name)")

	return cmd
}
