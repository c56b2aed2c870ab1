package main

import (
	"errors"
	"net/http"

	"tambii/internal/domain/reviews"
	"tambii/internal/domain/spots"
	"tambii/internal/media"
)

type submitReviewPayload struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=500"`
}

// submitSpotReviewHandler accepts a multipart form: a "review" JSON
// part plus optional "media" files. One review per user per spot;
// resubmitting replaces the previous one.
func (app *application) submitSpotReviewHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	spotID, err := app.spotIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload submitReviewPayload
	files, err := app.parseMultipartPayload(w, r, "review", &payload)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	result, err := app.reviews.Submit(r.Context(), user, spotID, reviews.SubmitInput{
		Rating:  payload.Rating,
		Comment: payload.Comment,
		Files:   files,
	})
	if err != nil {
		app.reviewSubmitError(w, r, err)
		return
	}

	if result.UploadedMedia < result.RequestedMedia {
		app.logger.Warnw("some review media failed to upload",
			"spot_id", spotID,
			"user_id", user.ID,
			"uploaded", result.UploadedMedia,
			"requested", result.RequestedMedia,
		)
	}

	result.Spot.AverageRating = roundRating(result.Spot.AverageRating)

	app.jsonResponse(w, http.StatusCreated, result)
}

func (app *application) reviewSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	var sizeErr *media.SizeLimitError
	var convErr *media.ConversionError

	switch {
	case errors.Is(err, reviews.ErrUnauthenticated):
		app.unauthorizedErrorResponse(w, r, err)
	case errors.Is(err, reviews.ErrInvalidRating):
		app.badRequestResponse(w, r, err)
	case errors.Is(err, spots.ErrSpotNotFound):
		app.notFoundResponse(w, r, err)
	case errors.As(err, &sizeErr), errors.As(err, &convErr):
		app.badRequestResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}

func (app *application) getSpotReviewsHandler(w http.ResponseWriter, r *http.Request) {
	spotID, err := app.spotIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	list, err := app.reviews.ListForSpot(r.Context(), spotID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"reviews": list,
	})
}

// getMySpotReviewHandler lets the client decide between the submit and
// already-reviewed affordances.
func (app *application) getMySpotReviewHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	spotID, err := app.spotIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	review, err := app.reviews.UserReview(r.Context(), user.ID, spotID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"review": review, // null when the user has not reviewed this spot
	})
}
