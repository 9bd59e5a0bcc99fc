package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func NewLoginCommand() *cobra.Command {
	var clientID, clientSecret string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange client credentials for an access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if clientID == "" {
				clientID = os.Getenv("FGCTL_CLIENT_ID")
			}
			if clientSecret == "" {
				clientSecret = os.Getenv("FGCTL_CLIENT_SECRET")
			}
			if clientID == "" || clientSecret == "" {
				return errors.New("client-id and client-secret are required")
			}

			cl, err := rt.buildClient()
			if err != nil {
				return err
			}
			grant, err := cl.Login(cmd.Context(), clientID, clientSecret)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			if rt.OutputFormat() == "json" {
				encoder := json.NewEncoder(rt.Writer())
				encoder.SetIndent("", "  ")
				return encoder.Encode(grant)
			}
			_, _ = fmt.Fprintln(rt.Writer(), grant.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "Client ID")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "Client secret")

	return cmd
}
