// Package emailsvc implements core.EmailService over the console, SMTP and SendGrid.
package emailsvc

import (
	"log"

	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core"
)

// NewService picks the backend named by conf.Mail.Backend.
func NewService(conf *core.Config, logger core.Logger, std *log.Logger) (core.EmailService, error) {
	switch conf.Mail.Backend {
	case "", "console":
		return NewConsoleService(conf, std), nil
	case "smtp":
		svc, err := NewSMTPService(conf)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case "sendgrid":
		return NewSendgridService(conf, logger), nil
	default:
		return nil, errors.Errorf("unknown mail backend %q", conf.Mail.Backend)
	}
}
