package testhelpers

import (
	"sync"

	"github.com/alumnihub/backend/internal/models"
)

// SentEmail records a single delivery made through the mock.
type SentEmail struct {
	To      string
	Kind    string
	Code    string
	Note    string
	Success bool
}

// MockEmailService records deliveries instead of talking to an SMTP server.
type MockEmailService struct {
	mu   sync.Mutex
	Sent []SentEmail
	Err  error
}

func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

func (m *MockEmailService) record(e SentEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, e)
	return nil
}

func (m *MockEmailService) SendWelcomeEmail(user *models.User) error {
	return m.record(SentEmail{To: user.Email, Kind: "welcome"})
}

func (m *MockEmailService) SendApprovalNotice(user *models.User) error {
	return m.record(SentEmail{To: user.Email, Kind: "approval"})
}

func (m *MockEmailService) SendRejectionNotice(user *models.User, reason string) error {
	return m.record(SentEmail{To: user.Email, Kind: "rejection", Note: reason})
}

func (m *MockEmailService) SendUpdateRequestResolved(user *models.User, approved bool, notes string) error {
	return m.record(SentEmail{To: user.Email, Kind: "update_request", Note: notes, Success: approved})
}

func (m *MockEmailService) SendOTPCode(email, code string) error {
	return m.record(SentEmail{To: email, Kind: "otp", Code: code})
}

// LastTo returns the most recent delivery to the given address.
func (m *MockEmailService) LastTo(email string) (SentEmail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Sent) - 1; i >= 0; i-- {
		if m.Sent[i].To == email {
			return m.Sent[i], true
		}
	}
	return SentEmail{}, false
}
