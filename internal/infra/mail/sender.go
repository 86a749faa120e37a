package mail

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/leadflow/crm-directory/internal/entity"
)

var assignmentTemplate = template.Must(template.New("assignment").Parse(
	`Hi {{.EmployeeName}},

{{.LeadCount}} lead(s) were assigned to you ({{.Mode}}):
{{range .LeadIDs}}  - {{.}}
{{end}}
Open the CRM to start following up.
`))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		From:   from,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

// NewEmailSenderWithDialer is used by tests to capture outgoing messages.
func NewEmailSenderWithDialer(d Dialer, from string) *EmailSender {
	return &EmailSender{From: from, dialer: d}
}

func renderAssignmentNotice(notice entity.LeadsAssignedPayload) (string, error) {
	data := AssignmentNoticeData{
		EmployeeName: notice.EmployeeName,
		Mode:         notice.Mode,
		LeadIDs:      notice.LeadIDs,
		LeadCount:    len(notice.LeadIDs),
	}

	var body bytes.Buffer
	if err := assignmentTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("render assignment notice: %w", err)
	}
	return body.String(), nil
}

func (s *EmailSender) SendAssignmentNotice(ctx context.Context, notice entity.LeadsAssignedPayload) error {
	body, err := renderAssignmentNotice(notice)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", notice.EmployeeEmail)
	m.SetHeader("Subject", fmt.Sprintf("%d new lead(s) assigned to you", len(notice.LeadIDs)))
	m.SetBody("text/plain", body)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send assignment notice: %w", err)
	}
	return nil
}
