package mail

type ReportEmailData struct {
	ReportName string
	Period     string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
