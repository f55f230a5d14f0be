package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshu1611/todoAppServer/config"
	"github.com/harshu1611/todoAppServer/pkg/helpers"
	"github.com/harshu1611/todoAppServer/pkg/mailer"
)

func TestOpenMail(t *testing.T) {
	newContainer := func(mutate func(*config.Config)) *Container {
		cfg := config.Load()
		mutate(cfg)
		return &Container{Config: cfg, Logger: helpers.DiscardLogger()}
	}

	t.Run("disabled", func(t *testing.T) {
		n, err := newContainer(func(c *config.Config) { c.MailSendEnabled = false }).openMail()
		require.NoError(t, err)
		assert.IsType(t, &mailer.DisabledSender{}, n)
	})

	t.Run("direct requires mailgun", func(t *testing.T) {
		_, err := newContainer(func(c *config.Config) {
			c.MailSendEnabled = true
			c.MailTransport = config.MailDirect
			c.MailgunDomain = ""
		}).openMail()
		assert.Error(t, err)
	})

	t.Run("direct", func(t *testing.T) {
		n, err := newContainer(func(c *config.Config) {
			c.MailSendEnabled = true
			c.MailTransport = config.MailDirect
			c.MailgunDomain, c.MailgunAPIKey, c.MailgunSender = "mg.example.com", "key", "noreply@example.com"
		}).openMail()
		require.NoError(t, err)
		assert.IsType(t, &mailer.DirectSender{}, n)
	})
}

func TestAccountServiceWithoutRedis(t *testing.T) {
	ct := &Container{Config: config.Load(), Logger: helpers.DiscardLogger()}
	svc := ct.AccountService()
	assert.Nil(t, svc.Revoker, "a nil denylist must not become a non-nil interface")
	assert.Equal(t, ct.Config.OTPTTL(), svc.OTPTTL)
}

func TestCloseRunsInReverse(t *testing.T) {
	var order []int
	ct := &Container{}
	ct.onClose(func() { order = append(order, 1) })
	ct.onClose(func() { order = append(order, 2) })
	ct.Close()
	ct.Close()
	assert.Equal(t, []int{2, 1}, order)
}
