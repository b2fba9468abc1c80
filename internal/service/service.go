// Package service implements the business logic between the HTTP handlers
// and the repositories.
//
// Conventions:
//   - The acting user is always an explicit argument, resolved once per
//     request by UserContext. Services never dig identities out of
//     context.Context themselves.
//   - Input validation happens here, before anything touches storage.
//   - All failures are returned as *apperror.AppError (or a wrapped
//     infrastructure error); handlers translate them to HTTP status codes.
package service

import "io"

// Upload is a file received from a multipart request, handed to services
// without buffering the whole body in the handler.
type Upload struct {
	Reader    io.Reader
	Filename  string
	MediaType string
}

// Field length and range limits, shared by the services that enforce them.
const (
	minTitleLen       = 4
	maxTitleLen       = 32
	minDescriptionLen = 8
	maxDescriptionLen = 64
	minPrice          = 0
	maxPrice          = 10_000_000
	minCommentLen     = 8
	maxCommentLen     = 64
	minPasswordLen    = 8
	maxPasswordLen    = 16
	minNameLen        = 2
	maxNameLen        = 16
)
