package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/law-makers/bizscrape/internal/store"
	"github.com/law-makers/bizscrape/internal/ui"
	"github.com/law-makers/bizscrape/internal/utils/output"
	"github.com/law-makers/bizscrape/pkg/models"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored business records",
		Example: `  # Newest records first
  bizscrape list

  # Search and sort
  bizscrape list --search fintech --sort company_name

  # Export a page of results
  bizscrape list --per-page 100 --output companies.json`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
	cmd.Flags().StringP("search", "s", "", "Case-insensitive search over name, type, industry, location and description")
	cmd.Flags().String("sort", store.SortScrapedAt, "Sort by scraped_at, company_name, business_type, industry or founded_year")
	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Int("per-page", 20, "Records per page (max 100)")
	cmd.Flags().StringP("output", "o", "", "Export the page to a file (.json, .csv or .md)")
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if err := a.EnsureStore(cmd.Context()); err != nil {
		return err
	}

	q := store.Query{}
	q.Search, _ = cmd.Flags().GetString("search")
	q.SortBy, _ = cmd.Flags().GetString("sort")
	q.Page, _ = cmd.Flags().GetInt("page")
	q.PerPage, _ = cmd.Flags().GetInt("per-page")

	q = q.Normalize()
	records, total, err := a.Store.List(cmd.Context(), q)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("output"); path != "" {
		if err := output.Save(path, output.Entries(records)); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	out := cmd.OutOrStdout()
	if a.Config.JSONLog {
		return json.NewEncoder(out).Encode(map[string]interface{}{
			"records":  records,
			"total":    total,
			"page":     q.Page,
			"per_page": q.PerPage,
		})
	}

	if total == 0 {
		fmt.Fprintln(out, "\nNo records found.")
		fmt.Fprintln(out, "\nScrape a site with:")
		fmt.Fprintln(out, "  bizscrape scrape <url>")
		fmt.Fprintln(out)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOMPANY\tTYPE\tINDUSTRY\tFOUNDED\tURL")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, ui.Shorten(r.CompanyName, 30), r.BusinessType, r.Industry, r.FoundedYear, r.URL)
	}
	tw.Flush()
	fmt.Fprintf(out, "\n%s\n", ui.Dim(fmt.Sprintf("%d of %d record(s)", len(records), total)))
	return nil
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show every field of a stored record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := GetAppFromCmd(cmd)
			if err := a.EnsureStore(cmd.Context()); err != nil {
				return err
			}
			rec, err := a.Store.Get(cmd.Context(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no record with id %s", args[0])
			}
			if err != nil {
				return err
			}
			if a.Config.JSONLog {
				return writeJSON(cmd.OutOrStdout(), output.Entries([]*models.Record{rec}))
			}
			ui.PrintRecord(cmd.OutOrStdout(), rec, true)
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete stored records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := GetAppFromCmd(cmd)
			if err := a.EnsureStore(cmd.Context()); err != nil {
				return err
			}
			for _, id := range args {
				err := a.Store.Delete(cmd.Context(), id)
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("no record with id %s", id)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", ui.Success("✓ Deleted "+id))
			}
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count stored records by business type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := GetAppFromCmd(cmd)
			if err := a.EnsureStore(cmd.Context()); err != nil {
				return err
			}
			stats, err := a.Store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.Config.JSONLog {
				return json.NewEncoder(out).Encode(stats)
			}

			fmt.Fprintf(out, "\n%s %d\n\n", ui.Bold("Total records:"), stats.Total)
			kinds := make([]string, 0, len(stats.ByBusinessType))
			for k := range stats.ByBusinessType {
				kinds = append(kinds, k)
			}
			sort.Slice(kinds, func(i, j int) bool {
				ci, cj := stats.ByBusinessType[kinds[i]], stats.ByBusinessType[kinds[j]]
				if ci != cj {
					return ci > cj
				}
				return kinds[i] < kinds[j]
			})
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, k := range kinds {
				fmt.Fprintf(tw, "  %s\t%d\n", k, stats.ByBusinessType[k])
			}
			tw.Flush()
			fmt.Fprintln(out)
			return nil
		},
	}
}
