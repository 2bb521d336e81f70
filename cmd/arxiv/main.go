// Command arxiv provides a CLI for the arXiv Atom query API.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/henrybloomingdale/arxiv-cli/arxiv"
	"github.com/henrybloomingdale/arxiv-cli/internal/config"
	"github.com/henrybloomingdale/arxiv-cli/internal/logger"
	"github.com/henrybloomingdale/arxiv-cli/internal/output"
	"github.com/spf13/cobra"
)

var (
	flagJSON      bool
	flagHuman     bool
	flagFull      bool
	flagCSV       string
	flagRIS       string
	flagConfig    string
	flagLogLevel  string
	flagUserAgent string
	flagBaseURL   string

	flagStart    int
	flagLimit    int
	flagCategory string
	flagAuthor   string
	flagTitle    string
	flagRaw      bool
	flagPDFLinks bool

	flagOutput string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arxiv",
	Short: "arXiv search CLI",
	Long:  `A command-line interface for searching arXiv and downloading papers using the public Atom query API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateGlobalFlags(cmd)
	},
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flagJSON, "json", false, "Output as structured JSON")
	pf.BoolVarP(&flagHuman, "human", "H", false, "Rich colorful terminal output")
	pf.BoolVar(&flagFull, "full", false, "Show full abstracts")
	pf.StringVar(&flagCSV, "csv", "", "Export results to CSV file (search only)")
	pf.StringVar(&flagRIS, "ris", "", "Export results to RIS file (search only)")
	pf.StringVar(&flagConfig, "config", "", "Path to YAML config file (or set ARXIV_CONFIG)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flagUserAgent, "user-agent", "", "User-Agent header sent to arXiv")
	pf.StringVar(&flagBaseURL, "base-url", "", "arXiv query endpoint")

	sf := searchCmd.Flags()
	sf.IntVar(&flagStart, "start", arxiv.DefaultStart, "Index of the first result")
	sf.IntVar(&flagLimit, "limit", arxiv.DefaultMaxResults, "Maximum number of results")
	sf.StringVar(&flagCategory, "category", "", "Restrict to a subject category (e.g., cs.CR)")
	sf.StringVar(&flagAuthor, "author", "", "Restrict to an author")
	sf.StringVar(&flagTitle, "title", "", "Restrict to words in the title")
	sf.BoolVar(&flagRaw, "raw", false, "Send terms exactly as given, without URL escaping")
	sf.BoolVar(&flagPDFLinks, "pdf-links", false, "Prefer PDF links advertised by the feed")

	qf := queryCmd.Flags()
	qf.IntVar(&flagStart, "start", arxiv.DefaultStart, "Index of the first result")
	qf.IntVar(&flagLimit, "limit", arxiv.DefaultMaxResults, "Maximum number of results")
	qf.StringVar(&flagCategory, "category", "", "Restrict to a subject category (e.g., cs.CR)")
	qf.StringVar(&flagAuthor, "author", "", "Restrict to an author")
	qf.StringVar(&flagTitle, "title", "", "Restrict to words in the title")
	qf.BoolVar(&flagRaw, "raw", false, "Render terms exactly as given, without URL escaping")

	downloadCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write the PDF to this file (- for stdout)")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(downloadCmd)
}

func outputCfg() output.OutputConfig {
	return output.OutputConfig{
		JSON:    flagJSON,
		Human:   flagHuman,
		Full:    flagFull,
		CSVFile: flagCSV,
		RISFile: flagRIS,
	}
}

func validateGlobalFlags(cmd *cobra.Command) error {
	if flagStart < 0 {
		return fmt.Errorf("--start must be non-negative, got %d", flagStart)
	}
	if flagLimit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", flagLimit)
	}
	if flagRIS != "" && cmd.Name() != "search" {
		return fmt.Errorf("--ris is only supported for search")
	}
	if flagCSV != "" && cmd.Name() != "search" {
		return fmt.Errorf("--csv is only supported for search")
	}
	if flagJSON && flagHuman {
		return fmt.Errorf("--json and --human are mutually exclusive")
	}
	return nil
}

// loadConfig reads the layered configuration and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if flagUserAgent != "" {
		cfg.UserAgent = flagUserAgent
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if f := cmd.Flags().Lookup("pdf-links"); f != nil && f.Changed {
		cfg.FeedPDFLinks = flagPDFLinks
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newClient(cmd *cobra.Command) (*arxiv.Client, *config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	log := logger.New(cfg.LogLevel, cmd.ErrOrStderr())
	return arxiv.NewClient(cfg.ClientOptions(log)...), cfg, log, nil
}

// buildQuery turns positional terms and filter flags into a Query. Unless
// raw is set, positional terms are URL-escaped whole and filter values are
// escaped behind a literal cat:, au: or ti: prefix.
func buildQuery(args []string, start, limit int, raw bool) arxiv.Query {
	esc := arxiv.EscapeTerm
	if raw {
		esc = func(s string) string { return s }
	}

	q := arxiv.NewQuery().Start(start).MaxResults(limit)
	for _, a := range args {
		if a = strings.TrimSpace(a); a != "" {
			q = q.Term(esc(a))
		}
	}
	filters := []struct{ prefix, value string }{
		{"cat:", flagCategory},
		{"au:", flagAuthor},
		{"ti:", flagTitle},
	}
	for _, f := range filters {
		if v := strings.TrimSpace(f.value); v != "" {
			q = q.Term(f.prefix + esc(v))
		}
	}
	return q
}

// resolveLimit uses the configured max_results unless --limit was given.
func resolveLimit(cmd *cobra.Command, cfg *config.Config) int {
	if cmd.Flags().Changed("limit") {
		return flagLimit
	}
	return cfg.MaxResults
}

// searchCmd implements the search subcommand.
var searchCmd = &cobra.Command{
	Use:   "search <term> [term...]",
	Short: "Search arXiv",
	Long: `Search arXiv with field-prefixed terms such as all:electron, au:smith or cat:cs.CR.
Terms are joined in order; use AND, OR and ANDNOT as separate terms to combine them.`,
	Example: `  arxiv search all:electron
  arxiv search --category cs.CR --limit 5 "side channel"
  arxiv search --raw 'ti:%22quantum+error+correction%22'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && flagCategory == "" && flagAuthor == "" && flagTitle == "" {
			return fmt.Errorf("at least one search term or filter is required")
		}

		client, cfg, log, err := newClient(cmd)
		if err != nil {
			return err
		}

		q := buildQuery(args, flagStart, resolveLimit(cmd, cfg), flagRaw)
		results, err := client.Search(cmd.Context(), q)
		if err != nil {
			switch {
			case arxiv.IsTransport(err):
				log.Error("arxiv request failed", "error", err)
			case arxiv.IsParse(err):
				log.Error("arxiv response rejected", "error", err)
			}
			return fmt.Errorf("search failed: %w", err)
		}

		return output.FormatResults(cmd.OutOrStdout(), q.Encode(), results, outputCfg())
	},
}

// queryCmd prints the query string search would send.
var queryCmd = &cobra.Command{
	Use:   "query <term> [term...]",
	Short: "Print the rendered query string without searching",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit := flagLimit
		if !cmd.Flags().Changed("limit") {
			if cfg, err := config.Load(flagConfig); err == nil {
				limit = cfg.MaxResults
			}
		}
		q := buildQuery(args, flagStart, limit, flagRaw)
		return output.FormatQuery(cmd.OutOrStdout(), q, outputCfg())
	},
}

// downloadCmd implements the download subcommand.
var downloadCmd = &cobra.Command{
	Use:   "download <id|url>",
	Short: "Download the PDF of a paper",
	Long:  `Download a paper's PDF given its arXiv identifier (2301.00001v2, hep-th/9901001) or abstract URL.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, log, err := newClient(cmd)
		if err != nil {
			return err
		}

		pdfURL := arxiv.PDFURLForID(args[0])
		dest := flagOutput
		if dest == "" {
			dest = defaultPDFName(pdfURL)
		}

		var w io.Writer
		if dest == "-" {
			w = cmd.OutOrStdout()
		} else {
			f, err := os.Create(dest)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			w = f
		}

		n, err := client.DownloadPDF(cmd.Context(), pdfURL, w)
		if err != nil {
			if dest != "-" {
				_ = os.Remove(dest)
			}
			return fmt.Errorf("download failed: %w", err)
		}

		log.Info("pdf saved", "url", pdfURL, "path", dest, "bytes", n)
		if dest != "-" {
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", dest, n)
		}
		return nil
	},
}

// defaultPDFName derives a file name from a PDF URL:
// http://arxiv.org/pdf/hep-th/9901001v1 becomes hep-th_9901001v1.pdf.
func defaultPDFName(pdfURL string) string {
	name := pdfURL
	if i := strings.Index(name, "/pdf/"); i >= 0 {
		name = name[i+len("/pdf/"):]
	} else if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Trim(name, "/")
	if name == "" {
		name = "paper"
	}
	name = strings.ReplaceAll(name, "/", "_")
	if !strings.HasSuffix(name, ".pdf") {
		name += ".pdf"
	}
	return name
}
