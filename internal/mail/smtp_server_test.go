// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package mail

import (
	"bufio"
	"encoding/base64"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
)

// fakeSMTPServer is a minimal in-process SMTP relay for transport tests.
type fakeSMTPServer struct {
	t        *testing.T
	listener net.Listener

	// username/password enable AUTH PLAIN when set.
	username string
	password string
	// rejectRcpt lists recipients answered with 550.
	rejectRcpt map[string]bool
	// rejectSender answers MAIL FROM with 553.
	rejectSender bool
	// silent accepts connections but never sends a greeting.
	silent bool

	mu       sync.Mutex
	commands []string
	from     string
	rcpts    []string
	data     string
	authed   bool
	wg       sync.WaitGroup
}

func newFakeSMTPServer(t *testing.T) *fakeSMTPServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	return &fakeSMTPServer{t: t, listener: ln, rejectRcpt: map[string]bool{}}
}

// start serves connections until the test ends.
func (s *fakeSMTPServer) start() {
	s.t.Cleanup(func() {
		_ = s.listener.Close()
		s.wg.Wait()
	})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				return
			}
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.serve(conn)
			}()
		}
	}()
}

func (s *fakeSMTPServer) host() string {
	return s.listener.Addr().(*net.TCPAddr).IP.String()
}

func (s *fakeSMTPServer) port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

func (s *fakeSMTPServer) serve(conn net.Conn) {
	defer conn.Close()
	if s.silent {
		// Hold the connection open without a greeting until the client gives up.
		_, _ = bufio.NewReader(conn).ReadByte()
		return
	}

	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 fake.local ESMTP ready")

	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.commands = append(s.commands, line)
		s.mu.Unlock()

		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
		switch verb {
		case "EHLO", "HELO":
			if s.username != "" {
				_ = tp.PrintfLine("250-fake.local")
				_ = tp.PrintfLine("250 AUTH PLAIN")
			} else {
				_ = tp.PrintfLine("250 fake.local")
			}
		case "AUTH":
			parts := strings.Fields(line)
			if len(parts) == 3 && s.checkPlain(parts[2]) {
				s.mu.Lock()
				s.authed = true
				s.mu.Unlock()
				_ = tp.PrintfLine("235 2.7.0 Authentication successful")
			} else {
				_ = tp.PrintfLine("535 5.7.8 Authentication credentials invalid")
			}
		case "MAIL":
			if s.rejectSender {
				_ = tp.PrintfLine("553 5.7.1 Sender address rejected: not owned by user")
				continue
			}
			s.mu.Lock()
			s.from = extractAddr(line)
			s.mu.Unlock()
			_ = tp.PrintfLine("250 OK")
		case "RCPT":
			addr := extractAddr(line)
			if s.rejectRcpt[addr] {
				_ = tp.PrintfLine("550 5.1.1 No such user")
				continue
			}
			s.mu.Lock()
			s.rcpts = append(s.rcpts, addr)
			s.mu.Unlock()
			_ = tp.PrintfLine("250 OK")
		case "DATA":
			_ = tp.PrintfLine("354 End data with <CR><LF>.<CR><LF>")
			lines, err := tp.ReadDotLines()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.data = strings.Join(lines, "\n")
			s.mu.Unlock()
			_ = tp.PrintfLine("250 OK queued")
		case "QUIT":
			_ = tp.PrintfLine("221 Bye")
			return
		default:
			_ = tp.PrintfLine("502 Command not implemented")
		}
	}
}

func (s *fakeSMTPServer) checkPlain(encoded string) bool {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}
	parts := strings.Split(string(raw), "\x00")
	return len(parts) == 3 && parts[1] == s.username && parts[2] == s.password
}

func extractAddr(line string) string {
	start := strings.IndexByte(line, '<')
	end := strings.IndexByte(line, '>')
	if start < 0 || end < start {
		return ""
	}
	return line[start+1 : end]
}

// snapshot returns what the server recorded.
func (s *fakeSMTPServer) snapshot() (from string, rcpts []string, data string, authed bool, commands []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.from, append([]string(nil), s.rcpts...), s.data, s.authed, append([]string(nil), s.commands...)
}
