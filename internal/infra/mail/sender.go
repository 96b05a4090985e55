package mail

import (
	"bytes"
	"fmt"
	"io"
	"text/template"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

var reportBodyTmpl = template.Must(template.New("report").Parse(
	`<p>Hello,</p>
<p>Please find attached the <strong>{{.ReportName}}</strong> report for the period {{.Period}}.</p>
<p>This report was generated automatically from the pipeline event log.</p>`))

// SendReport emails one rendered PDF report as an attachment.
func (s *EmailSender) SendReport(to, reportName, period string, pdfData []byte) error {
	data := ReportEmailData{
		ReportName: reportName,
		Period:     period,
	}

	var body bytes.Buffer
	if err := reportBodyTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("report email template failed: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("%s — %s", reportName, period))
	m.SetBody("text/html", body.String())
	m.Attach("report.pdf", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(pdfData)
		return err
	}))

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
