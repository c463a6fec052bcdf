package notify

import (
	"context"

	"cofactor-club/pkg/email"

	log "github.com/sirupsen/logrus"
)

const welcomeSubject = "Welcome to Cofactor Club"

var welcomeTemplate = email.MustTemplate(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1a1a1a;">
  <h2>Welcome to Cofactor Club, {{.Name}}!</h2>
  <p>Your membership is active. Share your referral code with friends to climb the leaderboard.</p>
  <p>Every referral is worth 50 points, every approved wiki edit 20 points.</p>
  <p style="color: #888; font-size: 12px;">You received this email because you signed up at cofactor.world.</p>
</body>
</html>`)

// Mailer 发送 HTML 邮件，由 email.Client 实现
type Mailer interface {
	SendWithTemplate(to string, subject string, tmpl *email.Template, data interface{}) error
}

// SMTPNotifier 直接通过 SMTP 发送欢迎邮件
type SMTPNotifier struct {
	mailer  Mailer
	enabled bool
}

// NewSMTPNotifier 未配置 SMTP 用户名时发送会被跳过
func NewSMTPNotifier(cfg email.Config) *SMTPNotifier {
	return &SMTPNotifier{
		mailer:  email.NewClient(&cfg),
		enabled: cfg.Enabled(),
	}
}

func (n *SMTPNotifier) SendWelcome(ctx context.Context, msg Welcome) error {
	if !n.enabled {
		log.WithFields(log.Fields{
			"component": "notify",
			"email":     msg.Email,
		}).Info("smtp not configured, welcome email skipped")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.mailer.SendWithTemplate(msg.Email, welcomeSubject, welcomeTemplate, msg)
}
