package main

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"tambii/internal/domain/spots"

	"github.com/go-chi/chi/v5"
)

type createSpotPayload struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Location    string   `json:"location" validate:"required,max=255"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Description string   `json:"description" validate:"required,max=2000"`
	Tags        []string `json:"tags" validate:"max=10,dive,max=30"`
}

func (app *application) createSpotHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload createSpotPayload
	files, err := app.parseMultipartPayload(w, r, "spot", &payload)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	attachments, err := app.media.Process(ctx, user.ID, user.Tier, files)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	imageURLs := make([]string, 0, len(attachments))
	for _, a := range attachments {
		imageURLs = append(imageURLs, a.URL)
	}

	spot := &spots.Spot{
		OwnerID:     user.ID,
		Name:        payload.Name,
		Location:    payload.Location,
		Longitude:   payload.Longitude,
		Latitude:    payload.Latitude,
		ImageURLs:   imageURLs,
		Description: payload.Description,
		Tags:        payload.Tags,
		Author:      user.Username,
	}

	if err := app.store.Spots.Create(ctx, spot); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, spot)
}

func (app *application) listSpotsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Spots.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	for i := range list {
		list[i].AverageRating = roundRating(list[i].AverageRating)
	}

	app.jsonResponse(w, http.StatusOK, list)
}

func (app *application) getSpotHandler(w http.ResponseWriter, r *http.Request) {
	spotID, err := app.spotIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	spot, err := app.store.Spots.GetByID(r.Context(), spotID)
	if err != nil {
		if errors.Is(err, spots.ErrSpotNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}
	spot.AverageRating = roundRating(spot.AverageRating)

	app.jsonResponse(w, http.StatusOK, spot)
}

func (app *application) uploadSpotPhotoHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	spotID, err := app.spotIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	isOwner, err := app.store.Spots.IsOwner(ctx, spotID, user.ID)
	if err != nil {
		if errors.Is(err, spots.ErrSpotNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}
	if !isOwner {
		app.forbiddenResponse(w, r)
		return
	}

	files, err := app.parseMultipartFiles(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if len(files) == 0 {
		app.badRequestResponse(w, r, errors.New("at least one media file is required"))
		return
	}

	attachments, err := app.media.Process(ctx, user.ID, user.Tier, files)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	for _, a := range attachments {
		if err := app.store.Spots.AddPhotoURL(ctx, spotID, a.URL); err != nil {
			app.internalServerError(w, r, err)
			return
		}
	}

	app.jsonResponse(w, http.StatusCreated, map[string]any{
		"uploaded":  len(attachments),
		"requested": len(files),
	})
}

// deleteSpotPhotoHandler handles DELETE /spots/{spotID}/photos?photo_url={url}
func (app *application) deleteSpotPhotoHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	spotID, err := app.spotIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	photoURL := r.URL.Query().Get("photo_url")
	if photoURL == "" {
		app.badRequestResponse(w, r, errors.New("photo_url query parameter is required"))
		return
	}

	ctx := r.Context()

	isOwner, err := app.store.Spots.IsOwner(ctx, spotID, user.ID)
	if err != nil {
		if errors.Is(err, spots.ErrSpotNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}
	if !isOwner {
		app.forbiddenResponse(w, r)
		return
	}

	if err := app.store.Spots.RemovePhotoURL(ctx, spotID, photoURL); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "photo removed"})
}

func (app *application) spotIDParam(r *http.Request) (int64, error) {
	spotID, err := strconv.ParseInt(chi.URLParam(r, "spotID"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid spot ID")
	}
	return spotID, nil
}

func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
