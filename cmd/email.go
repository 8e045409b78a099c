package main

import (
	"log"
	"strings"

	gomail "gopkg.in/gomail.v2"
)

type emailRequest struct {
	Subject string
	To      []string
	ReplyTo string
	From    string
	Body    string
}

func (svc *ServiceContext) sendEmail(request *emailRequest) error {
	mail := gomail.NewMessage()
	mail.SetHeader("MIME-version", "1.0")
	mail.SetHeader("Content-Type", "text/plain; charset=\"UTF-8\"")
	mail.SetHeader("Subject", request.Subject)
	mail.SetHeader("To", request.To...)
	mail.SetHeader("From", request.From)
	if request.ReplyTo != "" {
		mail.SetHeader("Reply-To", request.ReplyTo)
	}
	mail.SetBody("text/plain", request.Body)

	if svc.SMTP.DevMode {
		log.Printf("Email is in dev mode. Logging message: %s to %s", request.Subject, strings.Join(request.To, ","))
		log.Printf("%s", request.Body)
		return nil
	}

	log.Printf("Sending %s email to %s", request.Subject, strings.Join(request.To, ","))
	var dialer gomail.Dialer
	if svc.SMTP.Pass != "" {
		dialer = gomail.Dialer{Host: svc.SMTP.Host, Port: svc.SMTP.Port,
			Username: svc.SMTP.User, Password: svc.SMTP.Pass}
	} else {
		log.Printf("Using SMTP relay without authentication")
		dialer = gomail.Dialer{Host: svc.SMTP.Host, Port: svc.SMTP.Port}
	}
	return dialer.DialAndSend(mail)
}
