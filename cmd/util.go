package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/jrschumacher/cognito-jwt/pkg/cognito"
	"github.com/spf13/cobra"
)

var utilCmd = &cobra.Command{
	Use:     "util",
	Aliases: []string{"utils"},
	Short:   "Utility commands for inspecting a user pool",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "Available utility commands:")
		fmt.Fprintln(cmd.OutOrStdout(), "  jwks-url - Print the user pool's issuer and JWKS URL")
		fmt.Fprintln(cmd.OutOrStdout(), "  keys     - Fetch the JWKS and list its keys")
	},
}

var utilJWKSURLCmd = &cobra.Command{
	Use:   "jwks-url",
	Short: "Print the user pool's issuer and JWKS URL",
	RunE: func(cmd *cobra.Command, _ []string) error {
		issuer := cognito.Issuer{Region: cfg.CognitoRegion, UserPoolID: cfg.CognitoUserPoolID}
		if err := issuer.Validate(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "issuer: %s\njwks:   %s\n", issuer.URL(), issuer.JWKSURL())
		return nil
	},
}

var utilKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Fetch the JWKS and list its keys",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fetcher := cognito.NewFetcher(verifierOptions(cfg)...)

		var set *cognito.KeySet
		var err error
		if cfg.JWKSURL != "" {
			set, err = fetcher.Fetch(cmd.Context(), cfg.JWKSURL)
		} else {
			set, err = fetcher.FetchIssuer(cmd.Context(), cognito.Issuer{Region: cfg.CognitoRegion, UserPoolID: cfg.CognitoUserPoolID})
		}
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KID\tALG\tKTY")
		for _, k := range set.Keys {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", k.KeyID, k.Algorithm, k.KeyType)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(utilCmd)
	utilCmd.AddCommand(utilJWKSURLCmd)
	utilCmd.AddCommand(utilKeysCmd)
}
