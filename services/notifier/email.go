package notifsvc

import (
	"context"
	"net/mail"

	"github.com/trezcool/darasa/core"
)

// emailNotifier mails recording outcomes to the configured notify address.
type emailNotifier struct {
	mailSvc core.EmailService
	to      mail.Address
}

var _ core.Notifier = (*emailNotifier)(nil)

// NewEmailNotifier routes outcomes to conf.NotifyEmail. Falls back to the
// log notifier when no address is configured.
func NewEmailNotifier(conf *core.Config, mailSvc core.EmailService, logger core.Logger) core.Notifier {
	if conf.NotifyEmail == "" {
		return NewLogNotifier(logger)
	}
	return &emailNotifier{
		mailSvc: mailSvc,
		to:      mail.Address{Address: conf.NotifyEmail},
	}
}

func (n emailNotifier) Success(_ context.Context, msg string) {
	n.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{n.to},
		Subject: "Check-in recorded",
		Body:    msg,
	})
}

func (n emailNotifier) Error(_ context.Context, msg string) {
	n.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{n.to},
		Subject: "Check-in failed",
		Body:    msg,
	})
}
