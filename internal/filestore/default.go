package filestore

import _ "embed"

// DefaultAvatarPNG is the placeholder avatar written for every new user at
// registration. Users replace it later through the avatar update endpoint.
//
//go:embed defaultavatar/avatar.png
var DefaultAvatarPNG []byte

// DefaultAvatarMediaType is the content type of DefaultAvatarPNG.
const DefaultAvatarMediaType = "image/png"
