// Package mail sends notification mails about new suppliers.
package mail

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"

	"supplier_server/core/domain"
	"supplier_server/core/port/out"
)

// Config holds the SMTP endpoint and the addresses used for notifications.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Sales    string
}

// Mailer sends the new-supplier notification via SMTP. Sending is best
// effort: failures are logged and counted by the circuit breaker, never
// surfaced to the caller.
type Mailer struct {
	dialer  *gomail.Dialer
	cfg     Config
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

func NewMailer(cfg Config, log zerolog.Logger) *Mailer {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &Mailer{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		cfg:     cfg,
		breaker: breaker,
		log:     log.With().Str("component", "mailer").Logger(),
	}
}

// NotifyCreated mails the sales address about a newly created supplier.
func (m *Mailer) NotifyCreated(supplier *domain.Supplier) {
	_, err := m.breaker.Execute(func() (any, error) {
		msg := gomail.NewMessage()
		msg.SetHeader("From", m.cfg.From)
		msg.SetHeader("To", m.cfg.Sales)
		msg.SetHeader("Subject", fmt.Sprintf("Neuer Lieferant %s", supplier.ID))
		msg.SetBody("text/html", fmt.Sprintf("<strong>Neuer Lieferant:</strong> <em>%s</em>", supplier.LastName))
		return nil, m.dialer.DialAndSend(msg)
	})
	if err != nil {
		m.log.Error().Err(err).Str("id", supplier.ID).Msg("failed to send notification mail")
		return
	}
	m.log.Debug().Str("id", supplier.ID).Msg("notification mail sent")
}

var _ out.Notifier = (*Mailer)(nil)
