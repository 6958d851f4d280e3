package email

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeDialer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestNewSMTPSenderIncompleteConfig(t *testing.T) {
	testCases := []struct {
		name string
		cfg  SMTPConfig
	}{
		{name: "Missing Host", cfg: SMTPConfig{Port: 587, From: "noreply@meraroom.in"}},
		{name: "Missing Port", cfg: SMTPConfig{Host: "smtp.example.com", From: "noreply@meraroom.in"}},
		{name: "Missing From", cfg: SMTPConfig{Host: "smtp.example.com", Port: 587}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewSMTPSender(tc.cfg, logger.NewNop())
			assert.ErrorIs(t, err, ErrNotConfigured)
			assert.Nil(t, s)
		})
	}
}

func TestSendValidatesMessage(t *testing.T) {
	d := &fakeDialer{}
	s := newSender("noreply@meraroom.in", d, logger.NewNop())

	assert.Error(t, s.Send(context.Background(), nil, "subject", "", "body"))
	assert.Error(t, s.Send(context.Background(), []string{"a@b.in"}, "subject", "", ""))
	assert.Equal(t, 0, d.count())

	require.NoError(t, s.Send(context.Background(), []string{"a@b.in"}, "subject", "<p>hi</p>", "hi"))
	assert.Equal(t, 1, d.count())
}

func TestSendOpensBreakerAfterFailures(t *testing.T) {
	d := &fakeDialer{err: errors.New("connection refused")}
	s := newSender("noreply@meraroom.in", d, logger.NewNop())

	for i := 0; i < 3; i++ {
		require.Error(t, s.Send(context.Background(), []string{"a@b.in"}, "s", "", "b"))
	}
	err := s.Send(context.Background(), []string{"a@b.in"}, "s", "", "b")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, d.count())
}
