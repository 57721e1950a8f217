package notify

import (
	"context"
	"fmt"
	"strings"

	"ceylonhomes-api-io/api/pkg/models"

	"github.com/go-mail/mail"
)

type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	Sender     string
	SenderName string
}

type SMTPSender struct {
	cfg    SMTPConfig
	dialer *mail.Dialer
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg, dialer: mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)}
}

func (s *SMTPSender) Send(_ context.Context, job EmailJob) error {
	m := mail.NewMessage()
	m.SetAddressHeader("From", s.cfg.Sender, s.cfg.SenderName)
	m.SetAddressHeader("To", job.To, job.Name)
	m.SetHeader("Subject", job.Subject)
	m.SetBody("text/plain", job.Body)
	return s.dialer.DialAndSend(m)
}

type UserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// EmailNotifier mails listing owners about moderation decisions and new
// inquiries. Events without a template are ignored.
type EmailNotifier struct {
	pool  *EmailWorkerPool
	users UserLookup
}

func NewEmailNotifier(pool *EmailWorkerPool, users UserLookup) *EmailNotifier {
	return &EmailNotifier{pool: pool, users: users}
}

func (n *EmailNotifier) Notify(ctx context.Context, msg Message) error {
	if msg.Listing == nil {
		return nil
	}
	subject, body, ok := compose(msg)
	if !ok {
		return nil
	}
	owner, err := n.users.FindByID(ctx, msg.Listing.OwnerID)
	if err != nil {
		return fmt.Errorf("email %s: owner lookup: %w", msg.Event, err)
	}
	if !owner.Active || owner.Email == "" {
		return nil
	}
	return n.pool.Enqueue(EmailJob{
		Event:   msg.Event,
		To:      owner.Email,
		Name:    owner.Name,
		Subject: subject,
		Body:    body,
	})
}

func compose(msg Message) (subject, body string, ok bool) {
	l := msg.Listing
	reason := ""
	if l.RejectionReason != nil {
		reason = *l.RejectionReason
	}
	var b strings.Builder
	switch msg.Event {
	case ListingApproved, ListingUnsuspended:
		subject = "Your listing is live"
		fmt.Fprintf(&b, "Your listing %q has been approved and is now visible to buyers.", l.Title)
	case ListingRejected:
		subject = "Your listing was not approved"
		fmt.Fprintf(&b, "Your listing %q was rejected.\n\nReason: %s\n\nYou can edit the listing and submit it again.", l.Title, reason)
	case ListingSuspended:
		subject = "Your listing has been suspended"
		fmt.Fprintf(&b, "Your listing %q has been suspended by a moderator.", l.Title)
		if reason != "" {
			fmt.Fprintf(&b, "\n\nReason: %s", reason)
		}
	case InquiryReceived:
		if msg.Inquiry == nil {
			return "", "", false
		}
		subject = "New inquiry about " + l.Title
		fmt.Fprintf(&b, "%s sent you a message about %q:\n\n%s", msg.Inquiry.BuyerName, l.Title, msg.Inquiry.Message)
		if msg.Inquiry.BuyerEmail != "" {
			fmt.Fprintf(&b, "\n\nReply to: %s", msg.Inquiry.BuyerEmail)
		}
	default:
		return "", "", false
	}
	return subject, b.String(), true
}
