package main

import (
	"net/http"

	"tambii/internal/mailer"
)

type feedbackPayload struct {
	Message string `json:"message" validate:"required,max=2000"`
}

func (app *application) sendFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload feedbackPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	vars := struct {
		Username string
		Email    string
		Message  string
	}{
		Username: user.Username,
		Email:    user.Email,
		Message:  payload.Message,
	}

	// delivery happens off the request path; failures are logged only
	go func() {
		if _, err := app.mailer.Send(mailer.FeedbackTemplate, user.Username, app.config.feedbackInbox, vars); err != nil {
			app.logger.Errorw("error sending feedback email", "user_id", user.ID, "error", err)
		}
	}()

	app.jsonResponse(w, http.StatusAccepted, map[string]string{"message": "feedback submitted"})
}
