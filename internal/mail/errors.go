// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"strings"
)

// Delivery error codes.
const (
	CodeConnectionFailed  = "CONNECTION_FAILED"
	CodeAuthFailed        = "AUTH_FAILED"
	CodeTimeout           = "TIMEOUT"
	CodeRecipientRejected = "RECIPIENT_REJECTED"
	CodeSenderRejected    = "SENDER_REJECTED"
	CodeCircuitOpen       = "CIRCUIT_OPEN"
	CodeUnknown           = "UNKNOWN"
)

// DeliveryError is returned when a message could not be delivered.
type DeliveryError struct {
	Code string
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("mail delivery failed (%s): %v", e.Code, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the delivery code of err, or CodeUnknown if err is not a
// *DeliveryError.
func ErrorCode(err error) string {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeUnknown
}

// IsTransient reports whether a retry on a later run could succeed.
func IsTransient(code string) bool {
	switch code {
	case CodeConnectionFailed, CodeTimeout, CodeCircuitOpen:
		return true
	default:
		return false
	}
}

// newDeliveryError wraps err with code, unless err is a timeout.
func newDeliveryError(code string, err error) *DeliveryError {
	if isTimeout(err) {
		code = CodeTimeout
	}
	return &DeliveryError{Code: code, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// classifySenderError maps a MAIL FROM failure. A 5xx address rejection at
// this stage is about the configured sender, not a recipient.
func classifySenderError(err error) string {
	if code := classifyEmailError(err); code != CodeRecipientRejected {
		return code
	}
	return CodeSenderRejected
}

// classifyEmailError maps an SMTP error from a stage without its own code.
// SMTP reply codes are checked first, then the error text.
func classifyEmailError(err error) string {
	if isTimeout(err) {
		return CodeTimeout
	}

	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		switch tpErr.Code {
		case 530, 534, 535, 538:
			return CodeAuthFailed
		case 550, 551, 553:
			return CodeRecipientRejected
		case 421:
			return CodeConnectionFailed
		}
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "authentication") || strings.Contains(errStr, "auth"):
		return CodeAuthFailed
	case strings.Contains(errStr, "connection") || strings.Contains(errStr, "connect"):
		return CodeConnectionFailed
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline"):
		return CodeTimeout
	case strings.Contains(errStr, "recipient") || strings.Contains(errStr, "mailbox"):
		return CodeRecipientRejected
	}
	return CodeUnknown
}
