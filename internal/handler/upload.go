package handler

import (
	"net/http"

	"github.com/IKS-cod/TW2/internal/apperror"
	"github.com/IKS-cod/TW2/internal/service"
)

// maxUploadBytes caps multipart bodies; anything above spills to temp files
// and very large requests are rejected by MaxBytesReader in the router.
const maxUploadBytes = 10 << 20 // 10 MiB

// formUpload extracts the "image" file part of a multipart request. The
// returned closer must be closed by the caller after the service is done
// streaming.
func formUpload(r *http.Request) (service.Upload, func(), error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return service.Upload{}, nil, apperror.ValidationFailed("image", "request must be multipart/form-data with an image part")
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return service.Upload{}, nil, apperror.ValidationFailed("image", "missing image file part")
	}

	upload := service.Upload{
		Reader:    file,
		Filename:  header.Filename,
		MediaType: header.Header.Get("Content-Type"),
	}
	return upload, func() { file.Close() }, nil
}
