package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Rewrite the ledger with four-part version keys",
	Long: `Load the ledger, convert legacy three-part versions and keys to the
four-part form and write it back. Running it again changes nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, closeFn, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		legacy, err := l.Migrate(cmd.Context())
		if err != nil {
			return err
		}

		if len(legacy) == 0 {
			fmt.Println("✅ Ledger already uses four-part versions")
			return nil
		}
		fmt.Printf("✅ Migrated %d legacy keys: %s\n", len(legacy), strings.Join(legacy, ", "))
		return nil
	},
}
