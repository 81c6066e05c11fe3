package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/use-agent/docscrub/cleaner"
	"github.com/use-agent/docscrub/models"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [file]",
		Short: "Clean an HTML file (or stdin) and print the result",
		Long: `Clean reads an HTML document from a file, or from stdin when no file
is given (or the file is "-"), prunes boilerplate, normalizes inline runs into
paragraphs and writes the result to stdout or --output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runClean,
	}

	flags := cmd.Flags()
	flags.StringP("format", "f", models.FormatMarkdown, "output format: markdown, html, text")
	flags.String("extract", models.ExtractNone, "extract mode: none, readability")
	flags.StringP("url", "u", "", "source URL, used to resolve relative links")
	flags.StringSlice("include", nil, "CSS selectors to keep (scopes the body)")
	flags.StringSlice("exclude", nil, "CSS selectors to remove before cleaning")
	flags.String("max-input", "10MB", "reject inputs larger than this (e.g. 512KB, 20MB, 0 for no limit)")
	flags.Bool("no-validate", false, "skip the structural validation of the parsed tree")
	flags.StringP("output", "o", "", "write output to file instead of stdout")
	flags.Bool("stats", false, "print per-pass statistics to stderr")
	flags.Bool("stats-only", false, "print statistics to stdout and discard the content")
	flags.String("stats-format", "text", "statistics format: text, json, yaml")

	_ = viper.BindPFlag("format", flags.Lookup("format"))
	_ = viper.BindPFlag("extract", flags.Lookup("extract"))
	_ = viper.BindPFlag("max_input", flags.Lookup("max-input"))
	_ = viper.BindPFlag("validate_off", flags.Lookup("no-validate"))
	_ = viper.BindPFlag("stats_format", flags.Lookup("stats-format"))

	return cmd
}

// cleanStats is the machine-readable summary printed by --stats.
type cleanStats struct {
	Source         string             `json:"source" yaml:"source"`
	InputBytes     int                `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes    int                `json:"output_bytes" yaml:"output_bytes"`
	OriginalTokens int                `json:"original_tokens" yaml:"original_tokens"`
	CleanedTokens  int                `json:"cleaned_tokens" yaml:"cleaned_tokens"`
	SavingsPercent float64            `json:"savings_percent" yaml:"savings_percent"`
	Distance       int                `json:"structure_distance" yaml:"structure_distance"`
	Passes         []models.PassStats `json:"passes" yaml:"passes"`
	Total          models.PassStats   `json:"total" yaml:"total"`
}

func runClean(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	format := viper.GetString("format")
	switch format {
	case models.FormatMarkdown, models.FormatHTML, models.FormatText:
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	extract := viper.GetString("extract")
	if extract != models.ExtractNone && extract != models.ExtractReadability {
		return fmt.Errorf("unknown extract mode %q", extract)
	}
	maxInput, err := parseSize(viper.GetString("max_input"))
	if err != nil {
		return err
	}

	source := "stdin"
	if len(args) == 1 && args[0] != "-" {
		source = args[0]
	}
	input, err := readInput(cmd.InOrStdin(), source)
	if err != nil {
		return err
	}

	sourceURL, _ := flags.GetString("url")
	include, _ := flags.GetStringSlice("include")
	exclude, _ := flags.GetStringSlice("exclude")
	statsOnly, _ := flags.GetBool("stats-only")
	wantStats, _ := flags.GetBool("stats")
	wantStats = wantStats || statsOnly

	cl := cleaner.NewCleaner(cleaner.Config{
		Options:       cleaner.Options{SkipValidation: viper.GetBool("validate_off")},
		MaxInputBytes: maxInput,
	})
	resp, err := cl.Clean(string(input), sourceURL, format, extract, cleaner.CleanOptions{
		IncludeTags:   include,
		ExcludeTags:   exclude,
		IncludeReport: wantStats,
	})
	if err != nil {
		return err
	}

	if !statsOnly {
		path, _ := flags.GetString("output")
		if err := writeOutput(cmd.OutOrStdout(), path, resp.Content); err != nil {
			return err
		}
	}

	if wantStats {
		st := buildStats(source, len(input), resp)
		w := cmd.ErrOrStderr()
		if statsOnly {
			w = cmd.OutOrStdout()
		}
		return printStats(w, viper.GetString("stats_format"), st)
	}
	return nil
}

func parseSize(s string) (int, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --max-input %q: %w", s, err)
	}
	return int(n), nil
}

func readInput(stdin io.Reader, source string) ([]byte, error) {
	if source == "stdin" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return data, nil
}

func writeOutput(stdout io.Writer, path, content string) error {
	if path == "" {
		_, err := fmt.Fprintln(stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func buildStats(source string, inputBytes int, resp *models.CleanResponse) cleanStats {
	st := cleanStats{
		Source:         source,
		InputBytes:     inputBytes,
		OutputBytes:    len(resp.Content),
		OriginalTokens: resp.Tokens.OriginalEstimate,
		CleanedTokens:  resp.Tokens.CleanedEstimate,
		SavingsPercent: resp.Tokens.SavingsPercent,
	}
	if r := resp.Report; r != nil {
		st.Distance = r.StructureDistance
		st.Passes = r.Passes
		st.Total = r.Totals()
	}
	return st
}

func printStats(w io.Writer, format string, st cleanStats) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(st)
	case "text", "":
	default:
		return fmt.Errorf("unknown stats format %q", format)
	}

	fmt.Fprintf(w, "%s: %s -> %s, ~%s -> ~%s tokens (%.1f%% saved), structure distance %d\n",
		st.Source,
		humanize.Bytes(uint64(st.InputBytes)),
		humanize.Bytes(uint64(st.OutputBytes)),
		humanize.Comma(int64(st.OriginalTokens)),
		humanize.Comma(int64(st.CleanedTokens)),
		st.SavingsPercent,
		st.Distance,
	)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PASS\tREMOVED\tUNWRAPPED\tATTRS\tCREATED\tRETAGGED\tTIME")
	rows := append(append([]models.PassStats(nil), st.Passes...), st.Total)
	for _, p := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%dµs\n",
			p.Name, p.Removed, p.Unwrapped, p.AttrsRemoved, p.Created, p.Retagged, p.DurationUs)
	}
	return tw.Flush()
}
