package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/harshu1611/todoAppServer/pkg/helpers"
	mailtpl "github.com/harshu1611/todoAppServer/pkg/mailer/templates"
)

// Publisher puts a job on the email queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// DirectSender renders the OTP template and hands it to the transport in-line.
type DirectSender struct {
	Transport Transport
	AppName   string
}

func NewDirectSender(t Transport, appName string) *DirectSender {
	return &DirectSender{Transport: t, AppName: appName}
}

func (s *DirectSender) SendOTPEmail(ctx context.Context, to, subject string, otp int) error {
	data := mailtpl.NewOTPData(s.AppName, to, subject, helpers.FormatOTP(otp))
	text, html, err := mailtpl.Render(mailtpl.OTP, data)
	if err != nil {
		return err
	}
	return s.Transport.Send(ctx, to, subject, text, html)
}

// QueueSender enqueues the OTP email for cmd/email_worker. A publish failure
// is returned to the caller; delivery failures after that are the worker's.
type QueueSender struct {
	Pub     Publisher
	AppName string
}

func NewQueueSender(pub Publisher, appName string) *QueueSender {
	return &QueueSender{Pub: pub, AppName: appName}
}

func (s *QueueSender) SendOTPEmail(ctx context.Context, to, subject string, otp int) error {
	if s.Pub == nil {
		return errors.New("email queue not configured")
	}
	data := mailtpl.NewOTPData(s.AppName, to, subject, helpers.FormatOTP(otp))
	job := EmailJob{To: to, Subject: subject, Template: mailtpl.OTP, Data: mailtpl.ToMap(data)}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}
	return nil
}

// DisabledSender is used when MAIL_SEND_ENABLED=false. The code is only
// visible at debug level, which NewLogger enables in development.
type DisabledSender struct {
	Logger *logrus.Logger
}

func (s *DisabledSender) SendOTPEmail(_ context.Context, to, subject string, otp int) error {
	if s.Logger == nil {
		return nil
	}
	entry := s.Logger.WithFields(logrus.Fields{"to": to, "subject": subject})
	entry.Info("mail sending disabled; otp email skipped")
	entry.WithField("otp", helpers.FormatOTP(otp)).Debug("skipped otp email")
	return nil
}

// RenderJob turns a queued job into subject, text and html bodies.
func RenderJob(job EmailJob) (subject, text, html string, err error) {
	subject, text, html = job.Subject, job.Text, job.HTML
	if job.Template == "" {
		if subject == "" || (text == "" && html == "") {
			return "", "", "", errors.New("job has neither template nor body")
		}
		return subject, text, html, nil
	}
	text, html, err = mailtpl.Render(job.Template, job.Data)
	if err != nil {
		return "", "", "", err
	}
	return subject, text, html, nil
}
