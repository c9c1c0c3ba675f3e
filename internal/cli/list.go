package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/promotoria-nhamunda/controle-prazos/internal/records"
	"github.com/promotoria-nhamunda/controle-prazos/internal/view"
)

const dateLayout = "02/01/2006"

// ListCmd returns the list command
func ListCmd() *cobra.Command {
	var (
		archived bool
		term     string
	)

	cmd := &cobra.Command{
		Use:   "list <deadlines|audiences|administrative>",
		Short: "Print a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			mode := view.Active
			if archived {
				mode = view.Archived
			}
			return printCollection(os.Stdout, a, string(kind), mode, term, time.Now())
		},
	}

	cmd.Flags().BoolVar(&archived, "archived", false, "Show the archived view")
	cmd.Flags().StringVarP(&term, "term", "t", "", "Filter by process number or subject")
	return cmd
}

func printCollection(w io.Writer, a *app, kind string, mode view.Mode, term string, now time.Time) error {
	switch kind {
	case "deadlines":
		items := view.Deadlines(a.store.Deadlines(), mode, view.DeadlineFilter{Term: term})
		for _, d := range items {
			fmt.Fprintln(w, formatDeadline(d, now))
		}
		fmt.Fprintf(w, "%d deadline(s)\n", len(items))
	case "audiences":
		items := view.Audiences(a.store.Audiences(), mode, view.AudienceFilter{Process: term})
		for _, au := range items {
			fmt.Fprintln(w, formatAudience(au))
		}
		fmt.Fprintf(w, "%d hearing(s)\n", len(items))
	default:
		items := view.Administrative(a.store.Administrative(), mode, view.AdministrativeFilter{Term: term})
		for _, p := range items {
			fmt.Fprintln(w, formatAdministrative(p))
		}
		fmt.Fprintf(w, "%d process(es)\n", len(items))
	}
	return nil
}

func formatDeadline(d records.Deadline, now time.Time) string {
	due := d.EndDate.Format(dateLayout)
	if records.DateOnly(d.EndDate).Before(records.DateOnly(now)) {
		due = color.New(color.FgRed).Sprint(due)
	}
	return fmt.Sprintf("%s  %s  %s  %s  %s",
		due,
		d.ProcessNumber,
		priorityColor(d.Priority).Sprint(d.Priority),
		d.ManifestationPurpose,
		color.New(color.FgCyan).Sprintf("[%s / %s]", d.AdvisorStatus, d.PromoterDecision),
	)
}

func formatAudience(a records.Audience) string {
	return fmt.Sprintf("%s %s  %s  %s  %s  %s",
		a.Date.Format(dateLayout),
		a.Time,
		a.ProcessNumber,
		a.Type,
		a.Mode,
		color.New(color.FgCyan).Sprintf("[%s]", a.Status),
	)
}

func formatAdministrative(p records.AdministrativeProcess) string {
	status := color.New(color.FgGreen)
	switch p.Status {
	case records.AdminLate:
		status = color.New(color.FgRed)
	case records.AdminExtended:
		status = color.New(color.FgYellow)
	}
	return fmt.Sprintf("%s  %s  prazo %s  CNMP %s  %s",
		p.ProcedureNumber,
		p.MainSubject,
		p.LegalDeadline.Format(dateLayout),
		p.CNMPDeadline.Format(dateLayout),
		status.Sprintf("[%s]", p.Status),
	)
}

func priorityColor(p records.Priority) *color.Color {
	switch p {
	case records.PriorityUrgent:
		return color.New(color.FgHiRed, color.Bold)
	case records.PriorityHigh:
		return color.New(color.FgYellow)
	case records.PriorityLow:
		return color.New(color.FgHiBlack)
	default:
		return color.New(color.FgWhite)
	}
}
