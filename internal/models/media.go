package models

import (
	"io"
	"mime"
	"path/filepath"
	"strings"
)

// Upload is a file received from a multipart form.
type Upload struct {
	Filename    string
	Reader      io.Reader
	Size        int64
	ContentType string
}

// DetectContentType prefers the declared type and falls back to the file extension.
func (u Upload) DetectContentType() string {
	if u.ContentType != "" && u.ContentType != "application/octet-stream" {
		return u.ContentType
	}
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(u.Filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

const (
	DefaultAvatar          = "media/images/default.jpeg"
	DefaultCommunityBanner = "media/community-banners/default.jpeg"
	DefaultCommunityIcon   = "media/community-icons/default.jpeg"
)
