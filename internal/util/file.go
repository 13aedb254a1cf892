package util

var imageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

func IsImageMimeType(contentType string) bool {
	return imageMimeTypes[contentType]
}
