package mime

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// extMimeMap refines "text/plain" detections for text formats the content
// sniffer cannot tell apart.
var extMimeMap = map[string]string{
	".md":   "text/markdown",
	".yaml": "text/yaml",
	".yml":  "text/yaml",
	".csv":  "text/csv",
	".json": "application/json",
	".xml":  "application/xml",
	".html": "text/html",
	".css":  "text/css",
	".js":   "text/javascript",
	".svg":  "image/svg+xml",
}

// Detect returns the MIME type of content, refined by file extension when
// content-based detection only yields text/plain.
func Detect(content []byte, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType := mimetype.Detect(content).String()

	if strings.HasPrefix(contentType, "text/plain") {
		if refined, ok := extMimeMap[ext]; ok {
			return strings.Replace(contentType, "text/plain", refined, 1)
		}
	}
	return contentType
}
