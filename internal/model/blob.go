package model

// Avatar is a user's profile picture, one per user. FilePath points at the
// stored file on disk; EndpointPath is the public URL path a client uses to
// fetch it back ("/image/avatar/{userID}"). The file referenced by FilePath
// must exist on disk for as long as the row does.
type Avatar struct {
	ID           int64
	FilePath     string
	EndpointPath string
	MediaType    string
	UserID       int64
}

// Image is an ad's picture, at most one per ad. Same file-existence
// invariant as Avatar; EndpointPath is "/image/image/{imageID}".
type Image struct {
	ID           int64
	FilePath     string
	EndpointPath string
	MediaType    string
	AdID         int64
}
