package mailer

import "fmt"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending
// email. Template names a server-side rendering; when it is empty the
// Subject/Text pair is sent as-is.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// NewWelcomeJob builds the job published after a successful registration.
// It owns the data keys Render expects, so publisher and worker cannot
// drift apart.
func NewWelcomeJob(to, name string) EmailJob {
	return EmailJob{
		To:       to,
		Template: "welcome",
		Data:     map[string]any{"name": name},
	}
}

// Render resolves a templated job into a subject and text body.
func (j *EmailJob) Render() (subject, text string, err error) {
	switch j.Template {
	case "":
		return j.Subject, j.Text, nil
	case "welcome":
		name, _ := j.Data["name"].(string)
		if name == "" {
			name = "there"
		}
		subject = "Welcome to Starbook"
		text = fmt.Sprintf("Hi %s,\n\nYour account is ready. Log in to create your first shared account and start keeping records together.\n\nThe Starbook team", name)
		return subject, text, nil
	default:
		return "", "", fmt.Errorf("unknown email template %q", j.Template)
	}
}
