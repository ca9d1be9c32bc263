package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/MichelSalibaa/ZiadSupplies/internal/config"
	"github.com/MichelSalibaa/ZiadSupplies/internal/domain"
	log "github.com/sirupsen/logrus"
)

const confirmationSubject = "Ziad's Supplies – Order received"

// Sender delivers order confirmation emails. When SMTP is not configured the
// send is logged and skipped rather than treated as a failure.
type Sender interface {
	SendOrderConfirmation(ctx context.Context, summary *domain.OrderSummary) error
}

type smtpSender struct {
	cfg config.EmailConfig
}

func NewSMTPSender(cfg config.EmailConfig) Sender {
	return &smtpSender{cfg: cfg}
}

// BuildOrderConfirmation renders the plain-text confirmation body for an
// accepted order.
func BuildOrderConfirmation(summary *domain.OrderSummary) string {
	var b strings.Builder

	name := summary.CustomerName
	if name == "" {
		name = "Customer"
	}

	fmt.Fprintf(&b, "Hello %s,\n\n", name)
	b.WriteString("Thanks for placing an order with Ziad's Supplies. We've queued it for dispatch and will reach out to confirm delivery details shortly.\n\n")
	fmt.Fprintf(&b, "Order ID: %d\n", summary.ID)
	b.WriteString("Payment method: Cash on Delivery\n")

	if len(summary.Items) > 0 {
		b.WriteString("\nItems:\n")
		for _, item := range summary.Items {
			fmt.Fprintf(&b, "• %d × %s – $%s\n", item.Quantity, item.Name, item.LineTotal.StringFixed(2))
		}
	}

	fmt.Fprintf(&b, "\nTotal (COD): $%s\n", summary.Total.StringFixed(2))
	b.WriteString("\nWe'll be in touch to finalise dispatch details. If any adjustments are needed, simply reply to this email.\n\n")
	b.WriteString("Best regards,\nZiad's Supplies Team\n")

	return b.String()
}

func (s *smtpSender) SendOrderConfirmation(ctx context.Context, summary *domain.OrderSummary) error {
	from := s.cfg.From
	if from == "" {
		from = "Ziad's Supplies <no-reply@ziads-supplies.local>"
	}

	if s.cfg.SMTPHost == "" || summary.Email == "" {
		log.Infof("SMTP not configured. Confirmation email for order %d would target %s",
			summary.ID, summary.Email)
		return nil
	}

	body := BuildOrderConfirmation(summary)
	message := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		from, summary.Email, confirmationSubject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	var auth smtp.Auth
	if s.cfg.Username != "" && s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, from, []string{summary.Email}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send confirmation email for order %d: %w", summary.ID, err)
	}

	log.Infof("Sent order confirmation email for order %d to %s", summary.ID, summary.Email)
	return nil
}
