package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	jwttoken "clms/internal/jwt_token"
	"clms/internal/platform/config"
	id "clms/pkg/domain"
)

// TokenCmd mints a bearer token signed with the configured JWT key. It is
// meant for local development against a running server.
func TokenCmd() *cobra.Command {
	var (
		userID string
		roles  []string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := id.ParseUserID(userID); err != nil {
				return err
			}
			for _, r := range roles {
				if !id.IsKnownRole(strings.TrimSpace(r)) {
					return fmt.Errorf("unknown role %q", r)
				}
			}
			cfg := config.FromEnv()
			token, err := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer).
				GenerateAccessToken(userID, roles, ttl)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id carried in the token")
	cmd.Flags().StringSliceVar(&roles, "roles", []string{"viewer"}, "comma separated roles")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
