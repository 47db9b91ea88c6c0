package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"quotegen/internal/mailer"
)

func sendCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "send <quote.json>",
		Short: "Render a quote and email it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, out, err := renderFile(cmd, args[0])
			if err != nil {
				return err
			}

			recipient := to
			if recipient == "" {
				recipient = cfg.Email.To
			}
			if recipient == "" {
				return fmt.Errorf("no recipient: pass --to or set email.to in the config")
			}

			subject := "Quote " + doc.Number
			body := fmt.Sprintf("Please find quote %s attached.<br>", doc.Number)
			att := mailer.Attachment{
				Filename: fmt.Sprintf("quote_%s.pdf", doc.Number),
				Data:     out.Data,
			}
			if err := mailer.Send(cfg, recipient, subject, body, att); err != nil {
				return fmt.Errorf("send mail: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent quote %s to %s\n", doc.Number, recipient)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "recipient address (default from config)")
	return cmd
}
