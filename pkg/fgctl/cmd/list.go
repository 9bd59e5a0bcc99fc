package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/emonxxx11/filegate/pkg/fgctl/client"
)

func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			cl, err := rt.buildClient()
			if err != nil {
				return err
			}
			files, err := cl.ListFiles(cmd.Context())
			if err != nil {
				return fmt.Errorf("list failed: %w", err)
			}

			if rt.OutputFormat() == "json" {
				encoder := json.NewEncoder(rt.Writer())
				encoder.SetIndent("", "  ")
				return encoder.Encode(files)
			}
			writeFileTable(rt, files)
			return nil
		},
	}
	return cmd
}

func writeFileTable(rt *runtimeState, files []client.FileEntry) {
	tw := tabwriter.NewWriter(rt.Writer(), 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tSIZE\tCREATED\tUPDATED")
	for _, f := range files {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", f.Name, f.Size, formatTime(f.Created), formatTime(f.Updated))
	}
	_ = tw.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}
