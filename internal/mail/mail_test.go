package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRendererActivation(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	created := time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC)
	html, err := r.Activation("Ann <Lee>", "ab1", "https://acara.test/auth/activation?code=xyz", created)
	require.NoError(t, err)

	assert.Contains(t, html, `href="https://acara.test/auth/activation?code=xyz"`)
	assert.Contains(t, html, "Ann &lt;Lee&gt;", "names are escaped")
	assert.Contains(t, html, "<strong>ab1</strong>")
	assert.Contains(t, html, "4 March 2026")
	assert.Contains(t, html, ActivationSubject)
}

func TestSMTPSenderSend(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.test", Port: 2525, User: "mailer", Password: "pw", From: "no-reply@acara.test"}, zap.NewNop())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	var gotAuth smtp.Auth
	s.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, msg
		return nil
	}

	err := s.Send(context.Background(), Message{To: "a@b.com", Subject: "Hello", HTML: "<p>hi</p>"})
	require.NoError(t, err)

	assert.Equal(t, "smtp.test:2525", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, "no-reply@acara.test", gotFrom)
	assert.Equal(t, []string{"a@b.com"}, gotTo)
	body := string(gotMsg)
	assert.True(t, strings.HasPrefix(body, "From: no-reply@acara.test\r\n"))
	assert.Contains(t, body, "Subject: Hello\r\n")
	assert.Contains(t, body, "Content-Type: text/html")
	assert.True(t, strings.HasSuffix(body, "\r\n\r\n<p>hi</p>"))
}

func TestSMTPSenderWithoutAuth(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "localhost", Port: 25, From: "x@y.z"}, zap.NewNop())
	s.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		assert.Nil(t, a)
		return nil
	}
	require.NoError(t, s.Send(context.Background(), Message{To: "a@b.com"}))
}

func TestSMTPSenderErrors(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "localhost", Port: 25, From: "x@y.z"}, zap.NewNop())
	relayErr := errors.New("550 mailbox unavailable")
	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return relayErr }

	err := s.Send(context.Background(), Message{To: "a@b.com"})
	assert.ErrorIs(t, err, relayErr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.Send(ctx, Message{To: "a@b.com"})
	assert.ErrorIs(t, err, context.Canceled)
}
