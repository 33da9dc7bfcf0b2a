package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/service"
	apperrors "github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/pkg/util"
)

// cliStaffID attributes status changes made from the terminal.
const cliStaffID = "supportctl"

func newTicketsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "Inspect and update support tickets",
	}
	cmd.AddCommand(newTicketsListCmd(rt))
	cmd.AddCommand(newTicketsStatusCmd(rt))
	return cmd
}

func newTicketsListCmd(rt *runtime) *cobra.Command {
	var (
		status    string
		sessionID string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			components, _, err := rt.open(cmd.Context())
			if err != nil {
				return err
			}
			defer components.Close()

			filter := service.TicketListFilter{Limit: limit}
			if status != "" {
				s := domain.TicketStatus(status)
				filter.Status = &s
			}
			if sessionID != "" {
				filter.SessionID = &sessionID
			}
			tickets, err := components.Tickets.ListTickets(cmd.Context(), filter)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tSOURCE\tCREATED\tSUMMARY")
			for _, t := range tickets {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Status, t.Priority, t.Source,
					t.CreatedAt.UTC().Format("2006-01-02 15:04"), clipSummary(t.ProblemSummary))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status (open, in_progress, resolved, closed)")
	cmd.Flags().StringVar(&sessionID, "session", "", "filter by session id")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum tickets to show (at most 100)")
	return cmd
}

func newTicketsStatusCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move a ticket to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid ticket id %q", args[0])
			}
			components, _, err := rt.open(cmd.Context())
			if err != nil {
				return err
			}
			defer components.Close()

			ticket, err := components.Tickets.UpdateStatus(cmd.Context(), cliStaffID, id, domain.TicketStatus(args[1]))
			switch {
			case apperrors.HasCode(err, apperrors.CodeNotFound):
				return fmt.Errorf("ticket #%d does not exist", id)
			case err != nil:
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ticket #%d is now %s\n", ticket.ID, ticket.Status)
			return nil
		},
	}
}

func clipSummary(s string) string {
	r := []rune(s)
	if len(r) <= 60 {
		return s
	}
	return string(r[:57]) + "..."
}
