// Package mail sends the HTML notification for runs with at least one match.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"mime"
	"net/smtp"
	"strings"

	"github.com/jesica63/Googletrend-Tracker/internal/metrics"
	"github.com/jesica63/Googletrend-Tracker/internal/retry"
)

// Notifier delivers HTML email over implicit TLS (Gmail app-password style).
type Notifier struct {
	host       string
	port       int
	sender     string
	password   string
	recipients []string
	retryCfg   retry.Config
}

func NewNotifier(host string, port int, sender, password, receivers string, retryCfg retry.Config) *Notifier {
	return &Notifier{
		host:       host,
		port:       port,
		sender:     sender,
		password:   password,
		recipients: SplitRecipients(receivers),
		retryCfg:   retryCfg,
	}
}

// SplitRecipients turns the comma-separated receiver list into addresses.
func SplitRecipients(receivers string) []string {
	var out []string
	for _, r := range strings.Split(receivers, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// Send delivers the message, retrying transient SMTP failures.
func (n *Notifier) Send(subject, htmlBody string) error {
	err := retry.WithRetry(context.Background(), n.retryCfg, func() error {
		return n.sendOnce(subject, htmlBody)
	})
	if err != nil {
		return err
	}

	metrics.Global.IncrementEmailsSent()
	log.Printf("Notification email sent to %d recipient(s)", len(n.recipients))
	return nil
}

func (n *Notifier) sendOnce(subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", n.host, n.port)

	// Port 465 speaks TLS from the first byte, so plain smtp.SendMail (which
	// expects STARTTLS) does not work here.
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: n.host})
	if err != nil {
		return fmt.Errorf("error connecting to %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, n.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("error creating SMTP client: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", n.sender, n.password, n.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth failed: %w", err)
	}

	if err := client.Mail(n.sender); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	for _, rcpt := range n.recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("RCPT TO %s failed: %w", rcpt, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA failed: %w", err)
	}
	if _, err := wc.Write([]byte(n.message(subject, htmlBody))); err != nil {
		wc.Close()
		return fmt.Errorf("error writing message: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("error finishing message: %w", err)
	}

	return client.Quit()
}

func (n *Notifier) message(subject, htmlBody string) string {
	var b strings.Builder
	b.WriteString("From: " + n.sender + "\r\n")
	b.WriteString("To: " + strings.Join(n.recipients, ", ") + "\r\n")
	// Subject carries CJK text, so it must be RFC 2047 encoded.
	b.WriteString("Subject: " + mime.QEncoding.Encode("UTF-8", "💡 "+subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return b.String()
}
