package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/law-makers/bizscrape/internal/app"
	"github.com/law-makers/bizscrape/internal/config"
	"github.com/law-makers/bizscrape/internal/ui"
)

// Version is the CLI version
const Version = "0.1.0"

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bizscrape",
		Short: "Extract business profiles from company websites",
		Long: `Bizscrape fetches a company website, infers its business attributes
(industry, founding year, leadership, services and more) with heuristic
extraction, and keeps the resulting records in a local or Postgres store.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Initialize the application lazily so -h/help never starts anything
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetAppFromCmd(cmd) != nil {
			return nil
		}

		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		SetApp(cmd, a)
		return nil
	}

	// Ensure app is closed after command runs
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		a := GetAppFromCmd(cmd)
		if a == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), a.Config.HTTPTimeout)
		defer cancel()
		_ = a.Close(ctx)
		SetApp(cmd, nil)
	}

	config.RegisterFlags(rootCmd)
	rootCmd.Flags().BoolP("help", "h", false, "Help for bizscrape")
	rootCmd.Flags().Bool("version", false, "Version for bizscrape")
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		printHelp(cmd.OutOrStdout(), cmd, true)
	})
	rootCmd.SetUsageFunc(func(cmd *cobra.Command) error {
		printHelp(cmd.ErrOrStderr(), cmd, false)
		return nil
	})

	rootCmd.AddCommand(
		newScrapeCmd(),
		newListCmd(),
		newShowCmd(),
		newDeleteCmd(),
		newStatsCmd(),
		newDBCmd(),
	)
	return rootCmd
}

// Execute runs the CLI and exits non-zero on failure
func Execute(ctx context.Context) {
	cmd := NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.Error("Error: "+err.Error()))
		// run the post hook skipped by cobra on error
		if a := GetAppFromCmd(cmd); a != nil {
			_ = a.Close(context.Background())
		}
		os.Exit(1)
	}
}

// printHelp renders colorized help; the short form is used for usage errors
func printHelp(w io.Writer, cmd *cobra.Command, long bool) {
	heading := func(s string) {
		fmt.Fprintf(w, "\n%s%s%s\n", ui.ColorBold+ui.ColorWhite, s, ui.ColorReset)
	}

	if long {
		fmt.Fprintf(w, "\n%s%s%s\n", ui.ColorBold+ui.ColorCyan, strings.ToUpper(cmd.Name()), ui.ColorReset)
		if cmd.Short != "" {
			fmt.Fprintln(w, cmd.Short)
		}
		if cmd.Long != "" && cmd.Long != cmd.Short {
			fmt.Fprintf(w, "\n%s\n", cmd.Long)
		}
	}

	heading("Usage")
	if cmd.Runnable() {
		fmt.Fprintf(w, "  %s%s%s\n", ui.ColorCyan, cmd.UseLine(), ui.ColorReset)
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "  %s%s%s %s<command>%s %s[flags]%s\n",
			ui.ColorCyan, cmd.CommandPath(), ui.ColorReset,
			ui.ColorYellow, ui.ColorReset,
			ui.ColorDim, ui.ColorReset)
	}

	if long && cmd.HasExample() {
		heading("Examples")
		for _, line := range strings.Split(cmd.Example, "\n") {
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "":
			case strings.HasPrefix(trimmed, "#"):
				fmt.Fprintf(w, "  %s\n", ui.Dim(trimmed))
			default:
				fmt.Fprintf(w, "  %s\n", ui.Success("$ "+trimmed))
			}
		}
	}

	if cmd.HasAvailableSubCommands() {
		heading("Commands")
		width := 0
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() && len(c.Name()) > width {
				width = len(c.Name())
			}
		}
		for _, c := range cmd.Commands() {
			if !c.IsAvailableCommand() || c.Name() == "help" {
				continue
			}
			fmt.Fprintf(w, "  %s%-*s%s  %s\n", ui.ColorCyan, width, c.Name(), ui.ColorReset, ui.Dim(c.Short))
		}
	}

	if cmd.HasAvailableLocalFlags() {
		heading("Flags")
		printFlags(w, cmd.LocalFlags().FlagUsages())
	}
	if long && cmd.HasAvailableInheritedFlags() {
		heading("Global Flags")
		printFlags(w, cmd.InheritedFlags().FlagUsages())
	}

	fmt.Fprintf(w, "\n%s\n\n", ui.Dim(fmt.Sprintf("Use \"%s --help\" for more information.", cmd.CommandPath())))
}

// printFlags colors pflag's usage block: names green, descriptions dim
func printFlags(w io.Writer, usages string) {
	for _, line := range strings.Split(usages, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		trimmed := strings.TrimLeft(line, " ")
		if !strings.HasPrefix(trimmed, "-") {
			fmt.Fprintf(w, "%s\n", ui.Dim(line))
			continue
		}
		// pflag separates names and description with at least three spaces
		if i := strings.Index(trimmed, "   "); i > 0 {
			name, desc := trimmed[:i], strings.TrimSpace(trimmed[i:])
			fmt.Fprintf(w, "  %s%-30s%s %s\n", ui.ColorGreen, name, ui.ColorReset, ui.Dim(desc))
			continue
		}
		fmt.Fprintf(w, "  %s\n", ui.Success(trimmed))
	}
}
