package cmd

import (
	"os"

	"github.com/jrschumacher/cognito-jwt/internal/config"
	"github.com/jrschumacher/cognito-jwt/internal/logger"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "cognito-jwt",
	Short: "Cognito JWT verifier",
	Long:  `cognito-jwt verifies AWS Cognito user pool tokens against the pool's published JWKS`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		applyFlagOverrides(cmd)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("region", "", "Cognito region (overrides COGNITO_REGION)")
	rootCmd.PersistentFlags().String("user-pool-id", "", "Cognito user pool ID (overrides COGNITO_USER_POOL_ID)")
	rootCmd.PersistentFlags().String("jwks-url", "", "Fetch keys from this URL instead of the well-known endpoint")
}

// applyFlagOverrides copies explicitly set flags over the loaded config.
func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("region") {
		cfg.CognitoRegion, _ = flags.GetString("region")
	}
	if flags.Changed("user-pool-id") {
		cfg.CognitoUserPoolID, _ = flags.GetString("user-pool-id")
	}
	if flags.Changed("jwks-url") {
		cfg.JWKSURL, _ = flags.GetString("jwks-url")
	}
}

func Execute(c *config.Config) {
	cfg = c
	logger.Debug("Starting CLI", "env", cfg.AppEnv)
	if err := rootCmd.Execute(); err != nil {
		logger.Error("CLI error", "error", err)
		os.Exit(1)
	}
}
