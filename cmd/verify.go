package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [token|-]",
	Short: "Verify a token and print its claims",
	Long: `Verify checks the token signature against the user pool key set and prints
the claims as JSON. Claims such as exp, iss and aud are printed, not validated.
Pass "-" or no argument to read the token from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := readToken(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		verifier, err := newVerifier(cfg)
		if err != nil {
			return err
		}

		claims, err := verifier.Verify(cmd.Context(), token)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(claims)
	},
}

func readToken(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return strings.TrimSpace(args[0]), nil
	}
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return "", errors.New("no token given")
	}
	return token, nil
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
