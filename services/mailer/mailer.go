// Package mailer sends the bilingual delivery email with download links over
// plain SMTP. Sends are best-effort: the caller logs failures and moves on.
package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/haitham-akram/prestige-designs-sub003/pkg/logger"
	"github.com/haitham-akram/prestige-designs-sub003/pkg/retry"
)

// FileLink is one downloadable entry in the delivery email.
type FileLink struct {
	FileName string
	URL      string
}

// DeliveryEmail is the data the template renders.
type DeliveryEmail struct {
	OrderNumber string
	StoreName   string
	Files       []FileLink
}

var deliveryTmpl = template.Must(template.New("delivery").Parse(`<!DOCTYPE html>
<html dir="rtl" lang="ar">
<body style="font-family: Tahoma, Arial, sans-serif;">
  <h2>شكراً لطلبك من {{.StoreName}}</h2>
  <p>طلبك رقم <strong>{{.OrderNumber}}</strong> جاهز. يمكنك تحميل ملفات التصميم من الروابط التالية:</p>
  <p dir="ltr" style="color:#666;">Your order <strong>{{.OrderNumber}}</strong> is ready. Download your design files below:</p>
  <ul>
  {{range .Files}}<li><a href="{{.URL}}">{{.FileName}}</a></li>
  {{end}}</ul>
  <p>الروابط صالحة لفترة محدودة وبعدد تحميلات محدود.</p>
  <p dir="ltr" style="color:#666;">Links are valid for a limited time and number of downloads.</p>
</body>
</html>
`))

// RenderDelivery produces the HTML body for a delivery email.
func RenderDelivery(data DeliveryEmail) (string, error) {
	var buf bytes.Buffer
	if err := deliveryTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type Mailer struct {
	host     string
	port     string
	user     string
	password string
	from     string
	log      logger.Logger
}

func New(host, port, user, password, from string, log logger.Logger) *Mailer {
	return &Mailer{host: host, port: port, user: user, password: password, from: from, log: log}
}

// Configured reports whether SMTP settings are present. When they are not,
// sends are skipped rather than failed.
func (m *Mailer) Configured() bool {
	return m.host != "" && m.from != ""
}

// SendDelivery emails the download links for a completed order, retrying
// transient SMTP failures a few times.
func (m *Mailer) SendDelivery(ctx context.Context, to string, data DeliveryEmail) error {
	if !m.Configured() {
		m.log.Warn("smtp not configured, skipping delivery email", "orderNumber", data.OrderNumber)
		return nil
	}

	body, err := RenderDelivery(data)
	if err != nil {
		return fmt.Errorf("render delivery email: %w", err)
	}

	subject := fmt.Sprintf("ملفات طلبك %s - %s", data.OrderNumber, data.StoreName)
	msg := []byte("From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: =?UTF-8?B?" + encodeBase64(subject) + "?=\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" + body)

	backoff := retry.Exponential{
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2,
		JitterFactor:    0.2,
	}
	return retry.Do(ctx, 3, backoff, func() error {
		var auth smtp.Auth
		if m.user != "" {
			auth = smtp.PlainAuth("", m.user, m.password, m.host)
		}
		return smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, msg)
	})
}

func encodeBase64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}
