package notifier

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/wneessen/go-mail"

	"flight-deals/utils"
)

type fakeSender struct {
	dialErr  error
	rejectTo string
	dials    int
	closed   int
	sent     []string
}

func (f *fakeSender) DialWithContext(context.Context) error {
	f.dials++
	return f.dialErr
}

func (f *fakeSender) Send(msgs ...*mail.Msg) error {
	for _, m := range msgs {
		rcpts, err := m.GetRecipients()
		if err != nil {
			return err
		}
		if rcpts[0] == f.rejectTo {
			return errors.New("550 mailbox unavailable")
		}
		f.sent = append(f.sent, rcpts...)
	}
	return nil
}

func (f *fakeSender) Close() error {
	f.closed++
	return nil
}

func newTestNotifier(s *fakeSender) *EmailNotifier {
	return &EmailNotifier{from: "alerts@example.com", sender: s, logger: utils.NewLoggerTo(io.Discard)}
}

func TestEmailNotifierSendsToEveryAddress(t *testing.T) {
	s := &fakeSender{}

	err := newTestNotifier(s).Send(context.Background(), []string{"ada@example.com", "cy@example.com"}, "New Low Price Flight!", "body")

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, s.dials)
	assert.Equal(t, 1, s.closed)
	assert.Equal(t, []string{"ada@example.com", "cy@example.com"}, s.sent)
}

func TestEmailNotifierContinuesAfterFailures(t *testing.T) {
	s := &fakeSender{rejectTo: "gone@example.com"}

	err := newTestNotifier(s).Send(context.Background(),
		[]string{"not-an-address", "gone@example.com", "cy@example.com"}, "subject", "body")

	assert.NotEqual(t, nil, err)
	assert.Equal(t, []string{"cy@example.com"}, s.sent)
	assert.Equal(t, true, strings.Contains(err.Error(), "not-an-address"))
	assert.Equal(t, true, strings.Contains(err.Error(), "gone@example.com: 550"))
}

func TestEmailNotifierDialFailure(t *testing.T) {
	s := &fakeSender{dialErr: errors.New("connection refused")}

	err := newTestNotifier(s).Send(context.Background(), []string{"ada@example.com"}, "subject", "body")

	assert.NotEqual(t, nil, err)
	assert.Equal(t, 0, s.closed)
	assert.Equal(t, 0, len(s.sent))
}

func TestEmailNotifierNoAddresses(t *testing.T) {
	s := &fakeSender{}

	assert.Equal(t, nil, newTestNotifier(s).Send(context.Background(), nil, "subject", "body"))
	assert.Equal(t, 0, s.dials)
}

func TestEmailMessageContent(t *testing.T) {
	msg, err := newTestNotifier(&fakeSender{}).buildMessage("ada@example.com", "New Low Price Flight!", "Low price alert!")
	assert.Equal(t, nil, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	assert.Equal(t, nil, err)

	out := buf.String()
	assert.Equal(t, true, strings.Contains(out, "Subject: New Low Price Flight!"))
	assert.Equal(t, true, strings.Contains(out, "<alerts@example.com>"))
	assert.Equal(t, true, strings.Contains(out, "Low price alert!"))
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer

	err := NewLogNotifier(utils.NewLoggerTo(&buf)).Send(context.Background(), []string{"ada@example.com"}, "New Low Price Flight!", "cheap")

	assert.Equal(t, nil, err)
	assert.Equal(t, true, strings.Contains(buf.String(), "[dry-run]"))
	assert.Equal(t, true, strings.Contains(buf.String(), "cheap"))
}
