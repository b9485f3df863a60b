package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/insightdelivered/finmd/internal/api"
	"github.com/insightdelivered/finmd/internal/config"
	"github.com/insightdelivered/finmd/internal/converter"
	"github.com/insightdelivered/finmd/internal/logger"
	"github.com/insightdelivered/finmd/internal/models"
	"github.com/insightdelivered/finmd/internal/timeseries"
	"github.com/insightdelivered/finmd/internal/writer"
)

const version = "2.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is filled in by the root command before any subcommand runs.
type app struct {
	cfg config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	st := &app{}

	cmd := &cobra.Command{
		Use:   "finmd",
		Short: "Convert financial data into markdown for language models",
		Long: `finmd turns transactions, portfolios, statements, CSV exports, Excel
workbooks and PDF documents into compact markdown tables and text.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(v); err != nil {
				return err
			}
			st.cfg = config.FromViper(v)
			if err := st.cfg.Validate(); err != nil {
				return err
			}
			st.log = logger.New(st.cfg.LogLevel, st.cfg.LogFormat)
			cmd.SetContext(logger.WithContext(cmd.Context(), st.log))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (yaml|toml|json)")

	cmd.AddCommand(newConvertCmd(st))
	cmd.AddCommand(newNormalizeCmd())
	cmd.AddCommand(newServeCmd(st))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

type convertOptions struct {
	format      string
	contentType string
	output      string
	pretty      bool
}

func newConvertCmd(st *app) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert <file> [file...]",
		Short: "Convert a file to markdown",
		Long: `Convert a file to markdown.

JSON files are read as a payload envelope:
  {"format": "TRANSACTIONS", "transactions": [...]}
  {"format": "PORTFOLIO", "holdings": [...]}
  {"format": "STATEMENT", "metadata": {...}, "transactions": [...]}
  {"format": "RAW_CSV", "rawContent": "..."}

Other files are detected from --format, the extension, then --content-type:
PDF documents, .xlsx workbooks and comma or tab separated text.

With one input and no --output the markdown goes to stdout. With several
inputs each is written next to its source with a .md extension.`,
		Example: `  finmd convert statement.pdf
  finmd convert --pretty holdings.json
  finmd convert --format STATEMENT --output jan.md export.csv
  finmd convert jan.xlsx feb.xlsx mar.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "" && len(args) > 1 {
				return fmt.Errorf("--output needs a single input file, got %d", len(args))
			}
			for _, path := range args {
				if err := runConvert(cmd, st, path, opts, len(args) > 1); err != nil {
					return fmt.Errorf("processing %s: %w", path, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "", "input format: TRANSACTIONS, PORTFOLIO, STATEMENT, RAW_CSV or EXCEL (detected if omitted)")
	cmd.Flags().StringVar(&opts.contentType, "content-type", "", "declared MIME type, used when the extension is not recognized")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write markdown to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "render markdown for the terminal")

	return cmd
}

func runConvert(cmd *cobra.Command, st *app, path string, opts convertOptions, batch bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	res, err := convertBytes(data, filepath.Base(path), opts)
	if err != nil {
		return err
	}

	log := logger.FromContext(cmd.Context())
	log.Debug().
		Str("file", path).
		Str("format", res.Format).
		Int("item_count", res.ItemCount).
		Msg("converted")

	outPath := opts.output
	if batch {
		outPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".md"
	}
	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(res.Markdown), 0o644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s -> %s (%s, %d item(s))\n", path, outPath, res.Format, res.ItemCount)
		return nil
	}

	if opts.pretty {
		return writer.WritePreview(cmd.OutOrStdout(), res.Markdown, st.cfg.PreviewStyle, st.cfg.PreviewWidth)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), res.Markdown)
	return err
}

// convertBytes routes JSON input and TRANSACTIONS/PORTFOLIO hints through
// the payload envelope and everything else through file detection.
func convertBytes(data []byte, filename string, opts convertOptions) (*models.Result, error) {
	if isEnvelopeInput(filename, opts.format) {
		var env models.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filename, err)
		}
		if opts.format != "" {
			env.Format = opts.format
		}
		payload, err := converter.PayloadFromEnvelope(env)
		if err != nil {
			return nil, err
		}
		return converter.Convert(payload)
	}

	contentType := opts.contentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
	}
	return converter.ConvertFile(models.FileUpload{
		Data:        data,
		Filename:    filename,
		ContentType: contentType,
		Hint:        opts.format,
	})
}

func isEnvelopeInput(filename, hint string) bool {
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		return true
	}
	f, ok := models.ParseInputFormat(hint)
	return ok && (f == models.FormatTransactions || f == models.FormatPortfolio)
}

func newNormalizeCmd() *cobra.Command {
	var asMarkdown bool

	cmd := &cobra.Command{
		Use:   "normalize <file.json>",
		Short: "Compact a market-data time series for a language model",
		Long: `Read a time-series JSON document ("Meta Data" plus a "Time Series (...)"
object) and print its compact form {"s","i","tz","d":[[time,o,h,l,c,v],...]}.
Bars with a missing or non-numeric field are dropped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			dec := json.NewDecoder(bytes.NewReader(data))
			dec.UseNumber()
			var doc map[string]any
			if err := dec.Decode(&doc); err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			if asMarkdown {
				res, err := converter.ConvertTimeSeries(doc)
				if err != nil {
					return err
				}
				_, err = io.WriteString(cmd.OutOrStdout(), res.Markdown)
				return err
			}

			series, err := timeseries.Normalize(doc)
			if err != nil {
				return err
			}
			out, err := json.Marshal(series.Compact())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "print a markdown table instead of compact JSON")
	return cmd
}

func newServeCmd(st *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return api.Serve(cmd.Context(), st.cfg, st.log, version)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "finmd v%s\n", version)
		},
	}
}
