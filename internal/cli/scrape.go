package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/law-makers/bizscrape/internal/scraper"
	"github.com/law-makers/bizscrape/internal/ui"
	"github.com/law-makers/bizscrape/internal/utils/output"
	urlutil "github.com/law-makers/bizscrape/internal/utils/url"
	"github.com/spf13/cobra"
)

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape <url>...",
		Short: "Scrape company websites into business records",
		Long: `Fetches each website, extracts its business profile and stores the record.

Bare hosts such as acme.io are fetched over https. Up to two of the site's
/about, /company, /about-us, /team and /leadership pages are read to fill in
the founding year and a better description.`,
		Example: `  # Scrape one company
  bizscrape scrape https://acme.io

  # Scrape a list of sites, four at a time, and export them
  bizscrape scrape --file sites.txt --concurrency 4 --output companies.csv

  # Render script-heavy sites in headless Chrome
  bizscrape scrape https://app.example.com --mode rendered

  # Send extra request headers
  bizscrape scrape https://acme.io -H "Accept-Language: de"`,
		RunE: runScrape,
	}

	cmd.Flags().StringP("file", "f", "", "Read URLs from a file, one per line (# starts a comment)")
	cmd.Flags().IntP("concurrency", "c", 4, "Number of sites scraped in parallel")
	cmd.Flags().StringP("mode", "m", "static", "Fetch mode: static, rendered or auto")
	cmd.Flags().StringArrayP("header", "H", nil, "Custom headers (e.g., -H \"Accept-Language: de\")")
	cmd.Flags().StringP("output", "o", "", "Export records to a file (.json, .csv or .md)")
	cmd.Flags().Bool("force", false, "Scrape again even if the URL is already stored")
	cmd.Flags().Bool("inline-scripts", false, "Evaluate inline scripts to harvest embedded page state")
	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	ctx := cmd.Context()

	file, _ := cmd.Flags().GetString("file")
	urls, err := collectURLs(args, file)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return errors.New("no URLs given: pass them as arguments or with --file")
	}

	if err := a.EnsureStore(ctx); err != nil {
		return err
	}
	s := a.Scraper
	rawHeaders, _ := cmd.Flags().GetStringArray("header")
	if headers := parseHeaders(rawHeaders); len(headers) > 0 {
		s = a.WithHeaders(headers)
	}

	force, _ := cmd.Flags().GetBool("force")
	opts := scraper.BatchOptions{
		Concurrency: a.Config.Concurrency,
		ReuseStored: !force,
	}
	if len(urls) > 1 && !a.Config.JSONLog && a.Config.LogLevel != "error" {
		opts.Progress = cmd.ErrOrStderr()
	}

	results := s.ScrapeAll(ctx, urls, opts)

	var entries []output.Entry
	var failed []scraper.BatchResult
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
			continue
		}
		entries = append(entries, output.Entry{Record: r.Result.Record, ContentHTML: r.Result.ContentHTML})
	}

	out := cmd.OutOrStdout()
	if a.Config.JSONLog {
		if err := writeJSON(out, entries); err != nil {
			return err
		}
	} else {
		printResults(out, results)
	}

	if path, _ := cmd.Flags().GetString("output"); path != "" && len(entries) > 0 {
		if err := output.Save(path, entries); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if !a.Config.JSONLog {
			fmt.Fprintf(out, "\n%s\n", ui.Success(fmt.Sprintf("✓ Saved %d record(s) to %s", len(entries), path)))
		}
	}

	switch {
	case len(failed) == 0:
		return nil
	case len(urls) == 1:
		return failed[0].Err
	default:
		return fmt.Errorf("%d of %d sites could not be scraped", len(failed), len(urls))
	}
}

func printResults(w io.Writer, results []scraper.BatchResult) {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "\n%s %s\n", ui.Error("✗"), ui.Error(r.Err.Error()))
			continue
		}
		ui.PrintRecord(w, r.Result.Record, false)
		switch {
		case r.Result.Reused:
			fmt.Fprintf(w, "  %s\n", ui.Info("already stored, use --force to scrape again"))
		case r.Result.StoreErr != nil:
			fmt.Fprintf(w, "  %s\n", ui.Warning("⚠ record not saved: "+r.Result.StoreErr.Error()))
		case r.Result.Stored:
			fmt.Fprintf(w, "  %s\n", ui.Success("✓ saved"))
		}
	}
}

func writeJSON(w io.Writer, entries []output.Entry) error {
	content, err := output.JSON(entries)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(content))
	return err
}

// collectURLs merges argument and file URLs, prefixing https:// onto bare
// hosts and dropping duplicates
func collectURLs(args []string, file string) ([]string, error) {
	raw := append([]string{}, args...)
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open URL file: %w", err)
		}
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			raw = append(raw, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read URL file: %w", err)
		}
	}

	seen := make(map[string]bool)
	var urls []string
	for _, u := range raw {
		u = urlutil.Normalize(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls, nil
}
