package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

const guestName = "ゲスト"

// SMTPSender delivers the rendered templates through an SMTP relay via go-mail.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
// Authentication is skipped when username is empty.
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	}
	if s.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.username),
			gomail.WithPassword(s.password),
		)
	}

	client, err := gomail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendApplicationNotice(ctx context.Context, toEmail string, notice ApplicationNotice) error {
	subject, content, err := renderApplicationNotice(notice)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendConsultationReminder(ctx context.Context, toEmail string, reminder ConsultationReminder) error {
	content, err := renderConsultationReminder(reminder)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectConsultationReminder, content)
}

func renderApplicationNotice(notice ApplicationNotice) (string, string, error) {
	name := notice.ApplicantName
	if name == "" {
		name = guestName
	}
	content, err := renderEmailTemplate("application_notice.html", applicationNoticeEmailData{
		baseEmailData: baseEmailData{
			Title:    "応募通知",
			Heading:  "新しい応募がありました",
			CTALabel: "応募一覧を開く",
			CTAURL:   notice.AdminURL,
		},
		ApplicantName: name,
		JobTitle:      notice.JobTitle,
		SubmittedAt:   formatDateTime(notice.SubmittedAt),
	})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf(subjectApplicationNoticeFmt, name), content, nil
}

func renderConsultationReminder(reminder ConsultationReminder) (string, error) {
	name := reminder.AttendeeName
	if name == "" {
		name = guestName
	}
	return renderEmailTemplate("consultation_reminder.html", consultationReminderEmailData{
		baseEmailData: baseEmailData{
			Title:    "面談のリマインド",
			Heading:  "面談のリマインド",
			CTALabel: "面談に参加する",
			CTAURL:   reminder.MeetingURL,
		},
		AttendeeName: name,
		JobTitle:     reminder.JobTitle,
		StartsAt:     formatDateTime(reminder.StartsAt),
	})
}
