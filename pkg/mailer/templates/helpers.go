package templates

import (
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

// NewOTPData builds the data for the otp template, stamped with the current time.
func NewOTPData(appName, recipient, subject, code string, opts ...Option) EmailData {
	d := EmailData{
		AppName:        appName,
		RecipientEmail: recipient,
		Subject:        subject,
		Code:           code,
	}
	opts = append([]Option{WithTime(time.Now())}, opts...)
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
