package dispatch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMessage() Message {
	return Message{
		Subject: "Medicare ACCESS Weekly Brief - Mar 31, 2025 (5 articles)",
		From:    "briefs@example.com",
		To:      []string{"lead@example.com"},
		HTML:    "<h1>Brief</h1>",
		Text:    "Brief\n=====",
	}
}

func TestNormalizePassword(t *testing.T) {
	assert.Equal(t, "abcdefghijklmnop", NormalizePassword("abcd efgh ijkl mnop"))
	assert.Equal(t, "secret", NormalizePassword("secret"))
	assert.Equal(t, "", NormalizePassword("   "))
}

func TestNewSMTPDeliverer_Defaults(t *testing.T) {
	d := NewSMTPDeliverer(SMTPConfig{Host: "smtp.gmail.com", Port: 587, Password: "ab cd"})

	assert.Equal(t, "abcd", d.config.Password)
	assert.Equal(t, DefaultSMTPTimeout, d.config.Timeout)
	assert.Len(t, d.clientOptions(), 6)
}

func TestBuildMessage(t *testing.T) {
	m, err := BuildMessage(sampleMessage())
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "Subject: Medicare ACCESS Weekly Brief")
	assert.Contains(t, raw, "<briefs@example.com>")
	assert.Contains(t, raw, "<lead@example.com>")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "Message-ID:")
	assert.Contains(t, raw, "<h1>Brief</h1>")
}

func TestBuildMessage_Errors(t *testing.T) {
	msg := sampleMessage()
	msg.To = nil
	_, err := BuildMessage(msg)
	assert.Error(t, err)

	msg = sampleMessage()
	msg.From = "not an address"
	_, err = BuildMessage(msg)
	assert.Error(t, err)
}

func TestSMTPDeliverer_InvalidMessage(t *testing.T) {
	msg := sampleMessage()
	msg.To = nil

	err := NewSMTPDeliverer(SMTPConfig{Host: "localhost", Port: 587}).Send(context.Background(), msg)

	var deliveryErr *DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
	assert.Equal(t, "smtp", deliveryErr.Channel)
}

func TestSMTPDeliverer_UnreachableRelay(t *testing.T) {
	d := NewSMTPDeliverer(SMTPConfig{Host: "127.0.0.1", Port: 1, Timeout: time.Second})

	err := d.Send(context.Background(), sampleMessage())

	var deliveryErr *DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}

func TestFileDeliverer(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	d := &FileDeliverer{Dir: dir}

	require.NoError(t, d.Send(context.Background(), sampleMessage()))

	base := filepath.Join(dir, "medicare-access-weekly-brief-mar-31-2025-5-articles")
	assert.Equal(t, []string{base + ".html", base + ".txt"}, d.Written)

	html, err := os.ReadFile(base + ".html")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Brief</h1>", string(html))

	text, err := os.ReadFile(base + ".txt")
	require.NoError(t, err)
	assert.Equal(t, "Brief\n=====", string(text))
}

func TestFileDeliverer_DirIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	err := (&FileDeliverer{Dir: path}).Send(context.Background(), sampleMessage())

	var deliveryErr *DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
	assert.Equal(t, "file", deliveryErr.Channel)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "merlin-accuracy-report-mar-31-2025-6-weeks", Slug("⚠️ Merlin Accuracy Report - Mar 31, 2025 (6 weeks)"))
	assert.Equal(t, "brief", Slug("!!!"))
}
