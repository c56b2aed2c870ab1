package main

import (
	"errors"
	"net/http"

	"tambii/internal/domain/spots"
)

func (app *application) addToBucketListHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	spotID, err := app.spotIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	// make sure the spot exists before saving a dangling reference
	if _, err := app.store.Spots.GetByID(ctx, spotID); err != nil {
		if errors.Is(err, spots.ErrSpotNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.BucketList.Add(ctx, user.ID, spotID); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "spot saved"})
}

func (app *application) removeFromBucketListHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	spotID, err := app.spotIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.BucketList.Remove(r.Context(), user.ID, spotID); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "spot removed"})
}

// containsBucketListHandler tells the client whether a spot is already
// saved, so it can render the right toggle state.
func (app *application) containsBucketListHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	spotID, err := app.spotIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	saved, err := app.store.BucketList.Contains(r.Context(), user.ID, spotID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]bool{"saved": saved})
}

func (app *application) getBucketListHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	saved, err := app.store.BucketList.ListByUser(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	for i := range saved {
		saved[i].AverageRating = roundRating(saved[i].AverageRating)
	}

	app.jsonResponse(w, http.StatusOK, saved)
}
