package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/psds-microservice/ticket-reply-service/internal/auth"
	"github.com/psds-microservice/ticket-reply-service/internal/config"
	"github.com/spf13/cobra"
)

var tokenInfoCmd = &cobra.Command{
	Use:   "token-info",
	Short: "Print a redacted view of FORM_ACCESS_TOKEN (length and boundary characters only)",
	RunE:  runTokenInfo,
}

func runTokenInfo(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	out, err := json.MarshalIndent(auth.Describe(cfg.FormAccessToken), "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}
