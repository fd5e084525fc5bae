package services

import (
	"fmt"
	"sync"
)

// SentEmail records one email delivered through the mock mailer.
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// MockMailer is a mock implementation of Mailer for testing
type MockMailer struct {
	sent     []SentEmail
	failWith error
	mu       sync.Mutex
}

// NewMockMailer creates a new mock mailer
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

// SetAsMockForTesting sets this mock as the global mailer instance for testing
func (m *MockMailer) SetAsMockForTesting() {
	SetMailer(m)
}

// FailWith makes every subsequent Send return the given error, simulating an
// unreachable mail server.
func (m *MockMailer) FailWith(err error) {
	m.mu.Lock()
	m.failWith = err
	m.mu.Unlock()
}

// Send records the email, or fails if a failure has been injected
func (m *MockMailer) Send(to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return fmt.Errorf("mock mailer: %w", m.failWith)
	}

	m.sent = append(m.sent, SentEmail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// SentEmails returns all recorded emails (for testing assertions)
func (m *MockMailer) SentEmails() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()

	emails := make([]SentEmail, len(m.sent))
	copy(emails, m.sent)
	return emails
}

// Clear removes all recorded emails
func (m *MockMailer) Clear() {
	m.mu.Lock()
	m.sent = nil
	m.mu.Unlock()
}
