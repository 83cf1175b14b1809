package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Print records and logs as JSON")
	cmd.PersistentFlags().StringSlice("proxy", nil, "HTTP/SOCKS5 proxy, repeat to rotate (e.g., http://localhost:8080)")
	cmd.PersistentFlags().String("timeout", "", "Timeout for the primary page fetch (default 20s)")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
	cmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	cmd.PersistentFlags().String("store", "", "Record store: sqlite, postgres or memory (default sqlite)")
	cmd.PersistentFlags().String("dsn", "", "Store DSN: SQLite file path or Postgres connection string")
}
