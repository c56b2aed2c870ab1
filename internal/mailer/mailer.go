package mailer

import "embed"

const (
	FromName         = "Tambii"
	maxRetries       = 3
	FeedbackTemplate = "feedback.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
