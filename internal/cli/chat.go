package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/service"
)

const chatHelp = `Commands:
  /ticket [email]  create a support ticket for this conversation
  /sentiment       show the running sentiment average
  /reset           start over with a fresh conversation
  /quit            leave the chat`

func newChatCmd(rt *runtime) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive support conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			components, logger, err := rt.open(ctx)
			if err != nil {
				return err
			}
			defer components.Close()
			defer logger.Sync() //nolint:errcheck

			support := components.Support
			id := support.StartSession(sessionID)
			defer support.EndSession(id) //nolint:errcheck

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session %s\n%s\n\n", id, chatHelp)
			return chatLoop(cmd, support, id, cmd.InOrStdin(), out)
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session id (generated when empty)")
	return cmd
}

func chatLoop(cmd *cobra.Command, support *service.SupportService, id string, in io.Reader, out io.Writer) error {
	ctx := cmd.Context()
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/reset":
			if err := support.ResetSession(id); err != nil {
				return err
			}
			fmt.Fprintln(out, "conversation reset")
			continue
		case line == "/sentiment":
			st, err := support.Status(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "positive %.2f  neutral %.2f  negative %.2f\n", st.Average.Positive, st.Average.Neutral, st.Average.Negative)
			fmt.Fprintf(out, "stage %s, %d negative message(s)\n", st.Stage, st.NegativeCount)
			continue
		case strings.HasPrefix(line, "/ticket"):
			var email *string
			if rest := strings.TrimSpace(strings.TrimPrefix(line, "/ticket")); rest != "" {
				email = &rest
			}
			info, err := support.CreateManualTicket(ctx, id, email)
			if err != nil {
				fmt.Fprintf(out, "could not create ticket: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "bot> %s\n", info.Message)
			continue
		case strings.HasPrefix(line, "/"):
			fmt.Fprintln(out, chatHelp)
			continue
		}

		result, err := support.ProcessTurn(ctx, id, line)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "bot> %s\n", result.Response)
		fmt.Fprintf(out, "     [%s, %s]\n", result.Verdict.Label, result.Action)
		if result.RoutingMessage != nil {
			fmt.Fprintf(out, "     %s\n", *result.RoutingMessage)
		}
		if result.TicketError != nil {
			fmt.Fprintf(out, "     ticket not saved: %v\n", result.TicketError)
		}
	}
}
