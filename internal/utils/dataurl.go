package utils

import (
	"encoding/base64"
	"errors"
	"mime"
	"regexp"
	"strings"
)

var dataURLRe = regexp.MustCompile(`^data:([a-zA-Z0-9.+-]+/[a-zA-Z0-9.+-]+);base64,(.+)$`)

var ErrInvalidDataURL = errors.New("invalid data URL")

type DataURL struct {
	MimeType string
	Data     []byte
}

// ParseDataURL разбирает строку вида data:<mime>;base64,<payload>.
func ParseDataURL(s string) (*DataURL, error) {
	m := dataURLRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return nil, ErrInvalidDataURL
	}
	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return nil, ErrInvalidDataURL
	}
	return &DataURL{MimeType: strings.ToLower(m[1]), Data: data}, nil
}

func (d *DataURL) IsImage() bool {
	return strings.HasPrefix(d.MimeType, "image/")
}

// Ext - расширение файла по MIME-типу, для image/* без известного расширения берём подтип.
func (d *DataURL) Ext() string {
	switch d.MimeType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	case "application/pdf":
		return "pdf"
	case "application/epub+zip":
		return "epub"
	}
	if exts, err := mime.ExtensionsByType(d.MimeType); err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	parts := strings.SplitN(d.MimeType, "/", 2)
	if len(parts) == 2 {
		return strings.SplitN(parts[1], "+", 2)[0]
	}
	return "bin"
}
