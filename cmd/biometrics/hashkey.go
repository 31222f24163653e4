package main

import (
	"bufio"
	"fmt"
	"strings"

	"biometrics/internal/app"

	"github.com/spf13/cobra"
)

func newHashKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-key [KEY]",
		Short: "Print the bcrypt hash of an API key for API_KEY_HASH",
		Long:  "Print the bcrypt hash of an API key for API_KEY_HASH. The key is read from stdin when not given as an argument.",
		Args:  cobra.MaximumNArgs(1),
		// Configuration is not needed to hash a key.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read key: %w", err)
				}
				key = strings.TrimSpace(line)
			}
			hash, err := app.HashAPIKey(key)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}
