package media

import (
	"net/http"
	"strings"
)

// Kind classifies an attachment for the client gallery.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// File is one raw client-selected upload, fully buffered.
type File struct {
	Name string
	Data []byte
}

// Attachment is a durable, publicly-resolvable media reference.
type Attachment struct {
	URL  string `json:"url"`
	Kind Kind   `json:"kind"`
}

// DetectKind sniffs the content type of the first bytes of the file.
// Anything that is not a video is treated as an image.
func DetectKind(data []byte) Kind {
	n := len(data)
	if n > 512 {
		n = 512
	}
	mime := http.DetectContentType(data[:n])
	if strings.HasPrefix(mime, "video/") {
		return KindVideo
	}
	return KindImage
}
