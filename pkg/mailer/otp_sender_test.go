package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mailtpl "github.com/harshu1611/todoAppServer/pkg/mailer/templates"
)

type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) Send(ctx context.Context, to, subject, text, html string) error {
	args := m.Called(ctx, to, subject, text, html)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(ctx context.Context, body any) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}

func TestDirectSenderRendersCode(t *testing.T) {
	tr := &mockTransport{}
	tr.On("Send", mock.Anything, "ann@x.com", "Verify Your Account",
		mock.MatchedBy(func(text string) bool { return strings.Contains(text, "000042") }),
		mock.MatchedBy(func(html string) bool { return strings.Contains(html, "000042") }),
	).Return(nil).Once()

	err := NewDirectSender(tr, "Todo").SendOTPEmail(context.Background(), "ann@x.com", "Verify Your Account", 42)
	require.NoError(t, err)
	tr.AssertExpectations(t)
}

func TestDirectSenderSurfacesTransportError(t *testing.T) {
	tr := &mockTransport{}
	boom := errors.New("relay down")
	tr.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(boom)

	err := NewDirectSender(tr, "Todo").SendOTPEmail(context.Background(), "ann@x.com", "s", 1)
	assert.ErrorIs(t, err, boom)
}

func TestQueueSenderPublishesJob(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("PublishJSON", mock.Anything, mock.MatchedBy(func(body any) bool {
		job, ok := body.(EmailJob)
		return ok && job.To == "ann@x.com" && job.Template == mailtpl.OTP && job.Data["Code"] == "123456"
	})).Return(nil).Once()

	err := NewQueueSender(pub, "Todo").SendOTPEmail(context.Background(), "ann@x.com", "Reset", 123456)
	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestQueueSenderWithoutPublisher(t *testing.T) {
	err := NewQueueSender(nil, "Todo").SendOTPEmail(context.Background(), "ann@x.com", "Reset", 1)
	assert.Error(t, err)
}

func TestRenderJob(t *testing.T) {
	job := EmailJob{To: "ann@x.com", Subject: "Reset", Template: mailtpl.OTP,
		Data: mailtpl.ToMap(mailtpl.NewOTPData("Todo", "ann@x.com", "Reset", "777777"))}

	subject, text, html, err := RenderJob(job)
	require.NoError(t, err)
	assert.Equal(t, "Reset", subject)
	assert.Contains(t, text, "777777")
	assert.Contains(t, html, "777777")

	_, _, _, err = RenderJob(EmailJob{To: "ann@x.com"})
	assert.Error(t, err)

	subject, text, _, err = RenderJob(EmailJob{To: "ann@x.com", Subject: "Hi", Text: "plain"})
	require.NoError(t, err)
	assert.Equal(t, "Hi", subject)
	assert.Equal(t, "plain", text)
}
