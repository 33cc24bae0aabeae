package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/llehouerou/wavecast/internal/auth"
	"github.com/llehouerou/wavecast/internal/errmsg"
)

// TokenCmd issues an access token signed with the server secret.
func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for the client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpInitialize, err))
			}
			sub, _ := cmd.Flags().GetString("sub")
			premium, _ := cmd.Flags().GetBool("premium")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			token, err := auth.Issue(cfg.Server.JWTSecret, sub, premium, ttl)
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpTokenIssue, err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().String("sub", "", "account subject")
	cmd.Flags().Bool("premium", false, "grant premium access")
	cmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}
