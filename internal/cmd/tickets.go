package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/xeonx/timeago"

	"github.com/goatkit/ticketq/pkg/models"
	"github.com/goatkit/ticketq/pkg/ticketq"
)

var (
	flagStatuses     string
	flagAssigneeOnly bool
	flagGroups       string
	flagSortBy       string
	flagCSVPath      string
	flagXLSXPath     string
	flagSummary      bool
	flagFullDesc     bool
)

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "List tickets from the bound adapter",
	Long: `List tickets, optionally filtered by status, assignee and group,
sorted, and exported to CSV or XLSX.`,
	RunE: runTickets,
}

func init() {
	ticketsCmd.Flags().StringVar(&flagStatuses, "status", "open", "comma-separated statuses to fetch")
	ticketsCmd.Flags().BoolVar(&flagAssigneeOnly, "assignee-only", false, "only tickets assigned to you")
	ticketsCmd.Flags().StringVar(&flagGroups, "group", "", "comma-separated group names or ids")
	ticketsCmd.Flags().StringVar(&flagSortBy, "sort-by", "", "sort key: created_at, updated_at, days_created, days_updated")
	ticketsCmd.Flags().StringVar(&flagCSVPath, "csv", "", "write results to a CSV file")
	ticketsCmd.Flags().StringVar(&flagXLSXPath, "xlsx", "", "write results to an Excel workbook")
	ticketsCmd.Flags().BoolVar(&flagSummary, "summary", false, "print an aggregate summary instead of rows")
	ticketsCmd.Flags().BoolVar(&flagFullDesc, "full-description", false, "export full descriptions instead of the truncated form")
	rootCmd.AddCommand(ticketsCmd)
}

func splitFlag(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func runTickets(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	inst, err := d.factory.CreateAdapter(flagAdapter, nil)
	if err != nil {
		return err
	}
	lib := ticketq.New(inst,
		ticketq.WithLogger(d.logger),
		ticketq.WithProgress(func(stage string) {
			if flagVerbose {
				fmt.Fprintln(os.Stderr, stage)
			}
		}))

	tickets, err := lib.GetTickets(ticketq.GetTicketsOptions{
		Statuses:         splitFlag(flagStatuses),
		AssigneeOnly:     flagAssigneeOnly,
		Groups:           splitFlag(flagGroups),
		SortBy:           flagSortBy,
		IncludeTeamNames: true,
	})
	if err != nil {
		return err
	}

	if flagCSVPath != "" {
		if err := lib.ExportCSV(tickets, flagCSVPath, flagFullDesc); err != nil {
			return err
		}
		fmt.Printf("Wrote %d tickets to %s\n", len(tickets), flagCSVPath)
	}
	if flagXLSXPath != "" {
		if err := lib.ExportXLSX(tickets, flagXLSXPath, flagFullDesc); err != nil {
			return err
		}
		fmt.Printf("Wrote %d tickets to %s\n", len(tickets), flagXLSXPath)
	}
	if flagCSVPath != "" || flagXLSXPath != "" {
		return nil
	}

	if flagSummary {
		printSummary(lib.TicketsSummary(tickets))
		return nil
	}
	printTicketTable(tickets)
	return nil
}

func printTicketTable(tickets []*models.Ticket) {
	if len(tickets) == 0 {
		fmt.Println("No tickets found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tTEAM\tAGE\tUPDATED\tDESCRIPTION")
	for _, t := range tickets {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID,
			t.Status,
			t.TeamName,
			timeago.English.Format(t.CreatedAt),
			timeago.English.Format(t.UpdatedAt),
			t.ShortDescription(),
		)
	}
	w.Flush()
	fmt.Printf("\n%d tickets\n", len(tickets))
}

func printSummary(s ticketq.Summary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Total\t%d\n", s.Total)
	for _, status := range models.CommonStatuses() {
		if n, ok := s.ByStatus[status]; ok {
			fmt.Fprintf(w, "  %s\t%d\n", status, n)
		}
	}
	for status, n := range s.ByStatus {
		if !models.IsCommonStatus(status) {
			fmt.Fprintf(w, "  %s\t%d\n", status, n)
		}
	}
	fmt.Fprintf(w, "Unassigned\t%d\n", s.Unassigned)
	fmt.Fprintf(w, "Oldest\t%d days\n", s.OldestDays)
	w.Flush()
}
