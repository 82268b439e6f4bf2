// File: /services/email_service.go
package services

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"cinefest-api/config"
	"cinefest-api/models"
)

// Notifier dispatches the informational emails triggered by the subscription
// lifecycle. Every send is fire-and-forget: callers run it in a goroutine and
// only log failures, a notification error never fails a state change.
type Notifier interface {
	SendCategoryAssignedEmail(to models.User, event models.Event, category models.Category) error
	SendProjectionPlannedEmail(to []models.User, event models.Event, sub models.Subscription) error
	SendRatingReminderEmail(to []models.User, event models.Event, sub models.Subscription) error
}

type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer
}

func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)

	return &EmailService{
		config: cfg,
		dialer: dialer,
	}
}

// SendCategoryAssignedEmail tells a participant which category the invitation
// engine drew for them. The assignment is fixed once sent.
func (es *EmailService) SendCategoryAssignedEmail(to models.User, event models.Event, category models.Category) error {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", to.Email)
	m.SetHeader("Subject", fmt.Sprintf("CineFest - Your category for %s", event.Name))

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { text-align: center; background: #2f4f4f; color: #daa520; padding: 20px; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px; }
        .category { background: #e9ecef; padding: 20px; text-align: center; border-radius: 8px; margin: 20px 0; }
        .category-name { font-size: 28px; font-weight: bold; color: #2f4f4f; }
        .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>🎬 CineFest</h1>
            <p>%s</p>
        </div>
        <div class="content">
            <h2>Hello %s!</h2>
            <p>The draw is done. Your category for this event is:</p>
            <div class="category">
                <div class="category-name">%s</div>
                <p><small>%s</small></p>
            </div>
            <p>Submit your movie candidacy in this category before <strong>%s</strong>.</p>
        </div>
        <div class="footer">
            <p>This is an automated email, please do not reply.</p>
        </div>
    </div>
</body>
</html>`, event.Name, to.Username, category.Name, category.Description,
		event.SubscriptionExpiresAt.Format("02-01-2006 15:04"))

	textBody := fmt.Sprintf(`
Hello %s!

The draw is done. Your category for %s is: %s

%s

Submit your movie candidacy in this category before %s.

This is an automated email, please do not reply.
	`, to.Username, event.Name, category.Name, category.Description,
		event.SubscriptionExpiresAt.Format("02-01-2006 15:04"))

	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	if err := es.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send category assignment email: %w", err)
	}

	fmt.Printf("📧 Category assignment email sent to %s (%s -> %s)\n", to.Email, event.Name, category.Name)
	return nil
}

// SendProjectionPlannedEmail informs the event's participants about a planned
// (or re-planned) screening.
func (es *EmailService) SendProjectionPlannedEmail(to []models.User, event models.Event, sub models.Subscription) error {
	when := "TO BE DEFINED"
	if sub.ProjectAt != nil {
		when = sub.ProjectAt.Format("02-01-2006 15:04")
	}
	where := "TO BE DEFINED"
	if sub.Location != nil && *sub.Location != "" {
		where = *sub.Location
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("Subject", fmt.Sprintf("CineFest - Screening planned: %s", sub.MovieName))

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { text-align: center; background: #2f4f4f; color: #daa520; padding: 20px; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px; }
        .detail { background: white; padding: 15px; margin: 10px 0; border-radius: 8px; border-left: 4px solid #daa520; }
        .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>📽️ Screening planned</h1>
            <p>%s</p>
        </div>
        <div class="content">
            <p>The next movie of <strong>%s</strong> has a date!</p>
            <div class="detail"><strong>Movie:</strong> %s</div>
            <div class="detail"><strong>When:</strong> %s</div>
            <div class="detail"><strong>Where:</strong> %s</div>
            <p>After the screening you will be able to rate it. See you there!</p>
        </div>
        <div class="footer">
            <p>This is an automated email, please do not reply.</p>
        </div>
    </div>
</body>
</html>`, event.Name, event.Name, sub.MovieName, when, where)

	textBody := fmt.Sprintf(`
The next movie of %s has a date!

Movie: %s
When: %s
Where: %s

After the screening you will be able to rate it. See you there!

This is an automated email, please do not reply.
	`, event.Name, sub.MovieName, when, where)

	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	return es.sendToAll(m, to, "projection planned")
}

// SendRatingReminderEmail nudges the participants who have not voted yet.
func (es *EmailService) SendRatingReminderEmail(to []models.User, event models.Event, sub models.Subscription) error {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("Subject", fmt.Sprintf("CineFest - Your vote is missing: %s", sub.MovieName))

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { text-align: center; background: #2f4f4f; color: #daa520; padding: 20px; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px; }
        .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>🗳️ Don't forget to vote</h1>
            <p>%s</p>
        </div>
        <div class="content">
            <p><strong>%s</strong> has been screened and is waiting for your rating.</p>
            <p>Log in and submit your vote so the awards can be computed.</p>
        </div>
        <div class="footer">
            <p>This is an automated email, please do not reply.</p>
        </div>
    </div>
</body>
</html>`, event.Name, sub.MovieName)

	textBody := fmt.Sprintf(`
%s has been screened and is waiting for your rating.

Log in and submit your vote so the awards can be computed.

This is an automated email, please do not reply.
	`, sub.MovieName)

	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	return es.sendToAll(m, to, "rating reminder")
}

// sendToAll delivers one message per recipient. At-least-once, best-effort:
// a failed recipient is logged and skipped, the rest still get their copy.
func (es *EmailService) sendToAll(m *gomail.Message, recipients []models.User, kind string) error {
	var lastErr error
	for _, user := range recipients {
		m.SetHeader("To", user.Email)
		if err := es.dialer.DialAndSend(m); err != nil {
			fmt.Printf("❌ Failed to send %s email to %s: %v\n", kind, user.Email, err)
			lastErr = err
			continue
		}
		fmt.Printf("📧 %s email sent to %s at %s\n", kind, user.Email, time.Now().Format(time.RFC3339))
	}
	if lastErr != nil {
		return fmt.Errorf("failed to send %s email to some recipients: %w", kind, lastErr)
	}
	return nil
}
