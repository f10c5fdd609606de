package mail

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type AssignmentEmailData struct {
	LeadName   string
	ApprovedBy string
}

type OnboardedEmailData struct {
	LeadName string
}
