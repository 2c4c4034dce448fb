// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mail sends the platform's transactional messages over SMTP.
// Delivery is best-effort from the caller's perspective: handlers log a
// failed send and keep the committed mutation.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// Notifier is the notification contract handlers program against.
type Notifier interface {
	// CommentReceipt acknowledges a visitor's comment submission.
	CommentReceipt(ctx context.Context, to, postTitle string) error

	// ModerationAlert tells the site admin a comment awaits approval.
	ModerationAlert(ctx context.Context, postTitle, authorName, excerpt string) error

	// ContactMessage forwards a contact-form submission to the admin,
	// with reply-to set to the submitter.
	ContactMessage(ctx context.Context, name, replyTo, message string) error
}

// SMTP is the production Notifier over a plain SMTP transport.
type SMTP struct {
	client   *gomail.Client
	from     string
	admin    string
	siteName string
}

// NewSMTP builds an SMTP notifier. user may be empty for unauthenticated
// relays (local development).
func NewSMTP(host string, port int, user, password, from, admin, siteName string) (*SMTP, error) {
	opts := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if user != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(user),
			gomail.WithPassword(password),
		)
	}

	client, err := gomail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail client: %w", err)
	}
	return &SMTP{client: client, from: from, admin: admin, siteName: siteName}, nil
}

// CommentReceipt implements Notifier.
func (s *SMTP) CommentReceipt(ctx context.Context, to, postTitle string) error {
	subject, body := commentReceiptContent(s.siteName, postTitle)
	return s.send(ctx, to, subject, body, "")
}

// ModerationAlert implements Notifier.
func (s *SMTP) ModerationAlert(ctx context.Context, postTitle, authorName, excerpt string) error {
	subject, body := moderationAlertContent(s.siteName, postTitle, authorName, excerpt)
	return s.send(ctx, s.admin, subject, body, "")
}

// ContactMessage implements Notifier.
func (s *SMTP) ContactMessage(ctx context.Context, name, replyTo, message string) error {
	subject, body := contactContent(s.siteName, name, message)
	return s.send(ctx, s.admin, subject, body, replyTo)
}

func (s *SMTP) send(ctx context.Context, to, subject, body, replyTo string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	if replyTo != "" {
		if err := msg.ReplyTo(replyTo); err != nil {
			return fmt.Errorf("mail reply-to: %w", err)
		}
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail send: %w", err)
	}
	return nil
}

// Message content builders, kept separate from transport so they can be
// exercised without an SMTP server.

func commentReceiptContent(siteName, postTitle string) (subject, body string) {
	subject = fmt.Sprintf("[%s] Thanks for your comment", siteName)
	body = fmt.Sprintf(
		"Thanks for commenting on %q.\n\nYour comment will appear once it has been reviewed.\n",
		postTitle,
	)
	return subject, body
}

func moderationAlertContent(siteName, postTitle, authorName, excerpt string) (subject, body string) {
	subject = fmt.Sprintf("[%s] New comment awaiting approval", siteName)
	body = fmt.Sprintf(
		"%s commented on %q:\n\n%s\n\nApprove it from the admin comments page.\n",
		authorName, postTitle, excerpt,
	)
	return subject, body
}

func contactContent(siteName, name, message string) (subject, body string) {
	subject = fmt.Sprintf("[%s] Contact form message from %s", siteName, name)
	body = message + "\n"
	return subject, body
}
