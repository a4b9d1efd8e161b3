// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package mail

import (
	"bytes"
	"fmt"
	"mime"
	"mime/quotedprintable"
	netmail "net/mail"
	"strings"
	"time"
)

// Message is a plain-text email addressed to one or more recipients.
type Message struct {
	From     string
	FromName string
	To       []string
	Subject  string
	Body     string
	Date     time.Time

	// ReportID is sent as X-Report-ID so a delivered mail can be matched to
	// the run that produced it.
	ReportID string
}

// Bytes renders the message in RFC 5322 form with CRLF line endings and a
// quoted-printable UTF-8 body.
func (m *Message) Bytes() ([]byte, error) {
	var buf bytes.Buffer

	from := netmail.Address{Name: m.FromName, Address: m.From}
	date := m.Date
	if date.IsZero() {
		date = time.Now()
	}

	writeHeader(&buf, "From", from.String())
	writeHeader(&buf, "To", strings.Join(m.To, ", "))
	writeHeader(&buf, "Subject", mime.QEncoding.Encode("utf-8", m.Subject))
	writeHeader(&buf, "Date", date.Format(time.RFC1123Z))
	if m.ReportID != "" {
		writeHeader(&buf, "Message-ID", fmt.Sprintf("<%s@%s>", m.ReportID, senderDomain(m.From)))
		writeHeader(&buf, "X-Report-ID", m.ReportID)
	}
	writeHeader(&buf, "MIME-Version", "1.0")
	writeHeader(&buf, "Content-Type", "text/plain; charset=UTF-8")
	writeHeader(&buf, "Content-Transfer-Encoding", "quoted-printable")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(m.Body)); err != nil {
		return nil, fmt.Errorf("failed to encode message body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode message body: %w", err)
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("\r\n")) {
		buf.WriteString("\r\n")
	}

	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, name, value string) {
	buf.WriteString(name)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}

// senderDomain returns the domain part of addr, or "localhost".
func senderDomain(addr string) string {
	if i := strings.LastIndexByte(addr, '@'); i >= 0 && i < len(addr)-1 {
		return addr[i+1:]
	}
	return "localhost"
}
