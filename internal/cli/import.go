package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/promotoria-nhamunda/controle-prazos/internal/database"
	"github.com/promotoria-nhamunda/controle-prazos/internal/extraction"
	"github.com/promotoria-nhamunda/controle-prazos/internal/metrics"
	"github.com/promotoria-nhamunda/controle-prazos/internal/store"
)

// ImportCmd returns the import command
func ImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <deadlines|audiences|administrative> <file>",
		Short: "Extract records from a document and merge them",
		Long: `Extract records from a PDF, HTML or text document and merge them into
the local collections. Deadlines already active are skipped; hearings are
always appended.

Examples:
  controle-prazos import deadlines intimacoes.pdf
  controle-prazos import audiences pauta.pdf`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[1], err)
			}

			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.withExtraction(cmd.Context()); err != nil {
				return err
			}

			doc := extraction.FileDocument(filepath.Base(args[1]), "", data)
			entry := &database.ImportLog{
				Collection: string(kind),
				Source:     doc.Name,
				Extractor:  a.extractor.Name(),
				IPAddress:  "cli",
			}

			result, err := importDocument(cmd.Context(), a, kind, doc)
			if err != nil {
				entry.ErrorMessage = err.Error()
			} else {
				entry.Success = true
				entry.Found = result.Found
				entry.Imported = result.Imported
				entry.Skipped = result.Skipped
			}
			if logErr := a.backend.RecordImport(entry); logErr != nil {
				a.log.Warn("Failed to record import", "error", logErr)
			}
			if err != nil {
				return err
			}

			if result.Empty() {
				fmt.Println(color.New(color.FgYellow).Sprint("No records found in the document"))
				return nil
			}
			fmt.Printf("%s %d found, %s, %s\n",
				color.New(color.FgHiGreen).Sprint("✓"),
				result.Found,
				color.New(color.FgGreen).Sprintf("%d imported", result.Imported),
				color.New(color.FgHiBlack).Sprintf("%d skipped", result.Skipped),
			)
			return nil
		},
	}
}

func parseKind(s string) (extraction.Kind, error) {
	switch kind := extraction.Kind(s); kind {
	case extraction.KindDeadlines, extraction.KindAudiences, extraction.KindAdministrative:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown collection %q (want deadlines, audiences or administrative)", s)
	}
}

// importDocument runs one extraction and applies it to the store
func importDocument(ctx context.Context, a *app, kind extraction.Kind, doc extraction.Document) (store.ImportResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, a.cfg.ExtractionTimeout)
	defer cancel()

	var (
		result store.ImportResult
		err    error
	)
	switch kind {
	case extraction.KindDeadlines:
		var r *extraction.DeadlineResult
		if r, err = a.extractor.ExtractDeadlines(ctx, doc); err == nil {
			result, err = a.store.ImportDeadlines(r.Deadlines)
		}
	case extraction.KindAudiences:
		var r *extraction.AudienceResult
		if r, err = a.extractor.ExtractAudiences(ctx, doc); err == nil {
			result, err = a.store.ImportAudiences(r.Audiences)
		}
	case extraction.KindAdministrative:
		var r *extraction.AdministrativeResult
		if r, err = a.extractor.ExtractAdministrative(ctx, doc); err == nil {
			result, err = a.store.ImportAdministrative(r.Processes)
		}
	}
	if err != nil {
		return store.ImportResult{}, fmt.Errorf("%s import failed: %w", kind, err)
	}

	metrics.ObserveImport(string(kind), result.Imported, result.Skipped)
	return result, nil
}
