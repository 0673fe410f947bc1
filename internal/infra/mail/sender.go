package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     "no-reply@ligue-crm.com",
	}
}

// SendLeadAssigned avisa o novo dono que um lead foi atribuído a ele.
// Chamado em goroutine pelo use case; o erro só é logado lá.
func (s *EmailSender) SendLeadAssigned(to, ownerName, leadName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Lead atribuído: %s", leadName))
	m.SetBody("text/plain", fmt.Sprintf(
		"Olá %s,\n\nO lead %q acabou de ser atribuído a você. Acesse o CRM para dar o próximo passo.\n",
		ownerName, leadName,
	))

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}
