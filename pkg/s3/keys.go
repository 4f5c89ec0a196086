package s3

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("object not found")

var (
	ImageExtensions = map[string]string{
		".png":  "image/png",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".gif":  "image/gif",
	}
	VideoExtensions = map[string]string{
		".mp4": "video/mp4",
		".avi": "video/x-msvideo",
		".mov": "video/quicktime",
	}
)

func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

// Ext returns the lower-cased extension of filename when it is in allowed.
func Ext(filename string, allowed map[string]string) (string, bool) {
	ext := strings.ToLower(path.Ext(filename))
	_, ok := allowed[ext]
	return ext, ok
}

// SafeName strips any directory components and characters outside [A-Za-z0-9._-].
func SafeName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	name := strings.TrimLeft(b.String(), ".")
	if name == "" {
		return "file"
	}
	return name
}

func AvatarKey(filename string) string {
	return fmt.Sprintf("avatars/%s_%s", uuid.New().String(), SafeName(filename))
}

func AnimationKey() string {
	return fmt.Sprintf("animations/animation_%s.mp4", uuid.New().String())
}

func DrivingVideoKey(ext string) string {
	return fmt.Sprintf("uploads/driving_%s%s", uuid.New().String(), ext)
}
