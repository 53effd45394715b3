package emailsvc

import (
	"context"
	"net/mail"

	"github.com/pkg/errors"
	gomail "github.com/wneessen/go-mail"

	"github.com/trezcool/studyplanner/core"
)

// smtpService sends messages through an authenticated SMTP relay.
type smtpService struct {
	appName    string
	from       mail.Address
	subjPrefix string
	client     *gomail.Client
}

var _ core.EmailService = (*smtpService)(nil)

func NewSMTPService(conf *core.Config) (*smtpService, error) {
	opts := []gomail.Option{
		gomail.WithPort(conf.Mail.Port),
		gomail.WithTimeout(conf.Mail.Timeout),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if conf.Mail.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(conf.Mail.Username),
			gomail.WithPassword(conf.Mail.Password),
		)
	}
	client, err := gomail.NewClient(conf.Mail.SmtpServer, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "creating smtp client")
	}
	return &smtpService{
		appName:    conf.AppName,
		from:       conf.DefaultFromEmail(),
		subjPrefix: "[" + conf.AppName + "] ",
		client:     client,
	}, nil
}

func (svc *smtpService) SendMessages(ctx context.Context, messages ...*core.EmailMessage) error {
	msgs := make([]*gomail.Msg, 0, len(messages))
	for _, msg := range messages {
		if err := msg.Render(svc.appName); err != nil {
			return errors.Wrap(err, "rendering email")
		}
		if !(msg.HasRecipients() && msg.HasContent()) {
			continue
		}
		m, err := svc.prepare(*msg)
		if err != nil {
			return err
		}
		msgs = append(msgs, m)
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := svc.client.DialAndSendWithContext(ctx, msgs...); err != nil {
		return errors.Wrap(err, "sending email")
	}
	return nil
}

func (svc *smtpService) prepare(msg core.EmailMessage) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.FromFormat(svc.from.Name, svc.from.Address); err != nil {
		return nil, errors.Wrap(err, "setting sender")
	}
	for _, to := range msg.To {
		if err := m.AddToFormat(to.Name, to.Address); err != nil {
			return nil, errors.Wrap(err, "adding recipient")
		}
	}
	for _, cc := range msg.Cc {
		if err := m.AddCcFormat(cc.Name, cc.Address); err != nil {
			return nil, errors.Wrap(err, "adding cc")
		}
	}
	for _, bcc := range msg.Bcc {
		if err := m.AddBccFormat(bcc.Name, bcc.Address); err != nil {
			return nil, errors.Wrap(err, "adding bcc")
		}
	}
	m.Subject(svc.subjPrefix + msg.Subject)
	m.SetDate()

	switch {
	case msg.HTMLContent != "" && msg.TextContent != "":
		m.SetBodyString(gomail.TypeTextPlain, msg.TextContent)
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTMLContent)
	case msg.HTMLContent != "":
		m.SetBodyString(gomail.TypeTextHTML, msg.HTMLContent)
	default:
		m.SetBodyString(gomail.TypeTextPlain, msg.TextContent)
	}
	return m, nil
}
