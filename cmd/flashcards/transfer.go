package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conorfennell/flashcards/internal/deck"
	"github.com/conorfennell/flashcards/internal/domain"
	"github.com/conorfennell/flashcards/internal/ingest"
	"github.com/conorfennell/flashcards/internal/samples"
)

// reportImport prints the outcome of an import. Row-level rejections are
// reported but do not fail the command.
func reportImport(w io.Writer, created []*domain.Card, err error) error {
	var ie *domain.ImportError
	if err != nil && !errors.As(err, &ie) {
		return err
	}
	fmt.Fprintf(w, "Imported %d card(s).\n", len(created))
	if ie != nil {
		fmt.Fprintf(w, "Rejected %d row(s):\n", len(ie.Rows))
		for _, r := range ie.Rows {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}
	return nil
}

func (a *app) importCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Import cards from a TSV or Q:/A:/C: markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			if format == "" {
				format = "tsv"
				switch strings.ToLower(filepath.Ext(args[0])) {
				case ".md", ".markdown":
					format = "md"
				}
			}
			var created []*domain.Card
			switch format {
			case "tsv":
				created, err = a.deck.ImportTSV(string(raw))
			case "md", "markdown":
				created, err = a.deck.ImportMarkdown(string(raw))
			default:
				return fmt.Errorf("unknown import format %q", format)
			}
			if rerr := reportImport(cmd.OutOrStdout(), created, err); rerr != nil {
				return rerr
			}
			if len(created) == 0 {
				return nil
			}
			return a.save()
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "tsv or md (default: from file extension)")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export cards as TSV to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := deck.ExportTSV(a.deck.Select(deck.Query{Tag: tag}))
			if len(args) == 0 {
				_, err := io.WriteString(cmd.OutOrStdout(), out+"\n")
				return err
			}
			return os.WriteFile(args[0], []byte(out+"\n"), 0o644)
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "only cards with this tag")
	return cmd
}

func (a *app) scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <dir>",
		Short: "Import every .tsv, .txt and .md file under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := ingest.ScanDir(a.deck, args[0], a.log)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Found %d file(s), imported %d card(s), %d error(s).\n", res.Files, res.Imported, len(res.Errors))
			for _, e := range res.Errors {
				fmt.Fprintf(w, "  - %s\n", e)
			}
			if res.Imported == 0 {
				return nil
			}
			return a.save()
		},
	}
}

func (a *app) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add the built-in liver function test deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := a.deck.ImportTSV(samples.HepaticPearlsTSV())
			if rerr := reportImport(cmd.OutOrStdout(), created, err); rerr != nil {
				return rerr
			}
			if len(created) == 0 {
				return nil
			}
			return a.save()
		},
	}
}
