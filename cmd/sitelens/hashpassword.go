package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SiteLensProject/sitelens/pkg/auth"
)

func hashPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-password <password> <secret-key>",
		Short: "Print the digest for a credential entry",
		Long: `Computes the keyed digest of a password for provisioning a new
credential entry. Pair the output with a username in auth.users or
SITELENS_USERS, and configure the same secret key on the server.`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(auth.HashPassword(args[0], args[1]))
		},
	}

	return cmd
}
