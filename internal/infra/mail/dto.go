package mail

import "gopkg.in/gomail.v2"

type AssignmentNoticeData struct {
	EmployeeName string
	Mode         string
	LeadIDs      []string
	LeadCount    int
}

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	dialer Dialer
}
