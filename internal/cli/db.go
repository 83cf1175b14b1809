package cli

import (
	"fmt"

	"github.com/law-makers/bizscrape/internal/secrets"
	"github.com/law-makers/bizscrape/internal/ui"
	"github.com/spf13/cobra"
)

func newDBCmd() *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the record store connection",
		Long: `Manage the record store connection.

The Postgres DSN can be kept in the system keyring instead of the
environment. It is used when --store postgres is given without --dsn,
BIZSCRAPE_DSN or DATABASE_URL.`,
	}

	setCmd := &cobra.Command{
		Use:   "set-dsn <dsn>",
		Short: "Save a Postgres DSN to the keyring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vault := secrets.Default()
			if err := vault.Set(secrets.DSNKey, args[0]); err != nil {
				return fmt.Errorf("failed to save DSN: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", ui.Success("✓ DSN saved to "+vault.Backend()))
			return nil
		},
	}

	forgetCmd := &cobra.Command{
		Use:   "forget",
		Short: "Remove the saved Postgres DSN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := secrets.Default().Delete(secrets.DSNKey); err != nil {
				return fmt.Errorf("failed to remove DSN: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", ui.Success("✓ Saved DSN removed"))
			return nil
		},
	}

	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured store is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := GetAppFromCmd(cmd)
			if err := a.EnsureStore(cmd.Context()); err != nil {
				return err
			}
			if err := a.Store.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("%s store unreachable: %w", a.Config.StoreDriver, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", ui.Success("✓ "+a.Config.StoreDriver+" store is reachable"))
			return nil
		},
	}

	dbCmd.AddCommand(setCmd, forgetCmd, pingCmd)
	return dbCmd
}
