package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"
)

var assignmentTmpl = template.Must(template.New("assignment").Parse(
	`<p>Hi,</p>
<p>The lead <strong>{{.LeadName}}</strong> was approved by {{.ApprovedBy}} and assigned to you.</p>
<p>Open the Sales Lead Tracker to pick it up.</p>`))

var onboardedTmpl = template.Must(template.New("onboarded").Parse(
	`<p>Hi,</p>
<p>The lead <strong>{{.LeadName}}</strong> you approved has been onboarded. 🎉</p>`))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// SendAssignment notifies the new assignee that a lead landed on their plate.
func (s *EmailSender) SendAssignment(to, leadName, approvedBy string) error {
	var body bytes.Buffer
	if err := assignmentTmpl.Execute(&body, AssignmentEmailData{LeadName: leadName, ApprovedBy: approvedBy}); err != nil {
		return fmt.Errorf("failed to render assignment template: %w", err)
	}

	subject := fmt.Sprintf("New lead assigned to you: %s", leadName)
	return s.send(to, subject, body.String())
}

// SendOnboarded notifies the approver that a lead converted.
func (s *EmailSender) SendOnboarded(to, leadName string) error {
	var body bytes.Buffer
	if err := onboardedTmpl.Execute(&body, OnboardedEmailData{LeadName: leadName}); err != nil {
		return fmt.Errorf("failed to render onboarded template: %w", err)
	}

	subject := fmt.Sprintf("Lead onboarded: %s", leadName)
	return s.send(to, subject, body.String())
}

func (s *EmailSender) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send SMTP email: %w", err)
	}

	return nil
}
