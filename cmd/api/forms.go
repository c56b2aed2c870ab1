package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"tambii/internal/media"
)

const (
	maxFormBytes    = 60 * 1024 * 1024 // premium ceiling plus form overhead
	maxFilesPerForm = 7
)

// parseMultipartFiles buffers the "media" files of a multipart form.
func (app *application) parseMultipartFiles(w http.ResponseWriter, r *http.Request) ([]media.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	if err := r.ParseMultipartForm(maxFormBytes); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	return app.bufferFormFiles(r)
}

// parseMultipartPayload decodes the JSON part of a multipart form into
// data and buffers the uploaded files for the media pipeline. Size
// policy is enforced later, per tier, by the pipeline itself.
func (app *application) parseMultipartPayload(w http.ResponseWriter, r *http.Request, field string, data any) ([]media.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	if err := r.ParseMultipartForm(maxFormBytes); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	if err := json.Unmarshal([]byte(r.FormValue(field)), data); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	if err := Validate.Struct(data); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return app.bufferFormFiles(r)
}

func (app *application) bufferFormFiles(r *http.Request) ([]media.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	headers := r.MultipartForm.File["media"]
	if len(headers) > maxFilesPerForm {
		return nil, fmt.Errorf("maximum %d files allowed", maxFilesPerForm)
	}

	files := make([]media.File, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}

		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read file %s: %w", header.Filename, err)
		}

		files = append(files, media.File{Name: header.Filename, Data: data})
	}

	return files, nil
}
