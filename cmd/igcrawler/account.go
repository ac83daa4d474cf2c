package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// accountCmd resolves the Instagram business account id for the token
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Resolve the Instagram business account id",
	Long: `Discover the Instagram business account linked to the access
token's first Facebook page. Use the printed id as IG_USER_ID.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		a := newApp(cfg, log)
		ctx := context.Background()

		tok, err := a.tokens.Get(ctx, "")
		if err != nil {
			return err
		}

		id, err := a.client.ResolveBusinessAccount(ctx, tok.Value)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}
