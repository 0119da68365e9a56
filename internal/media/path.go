package media

import (
	"errors"
	"path"
	"strings"

	"github.com/goliatone/go-ninecms/internal/translit"
)

var (
	ErrUnsupportedFileExt  = errors.New("media: unsupported file extension")
	ErrUnsupportedVideoExt = errors.New("media: unsupported video extension")
)

var fileExtensions = []string{".txt", ".pdf", ".doc", ".docx", ".odt", ".xls", ".xlsx", ".ods"}

var videoExtensions = []string{".mp4", ".mpeg", ".m4v", ".webm", ".ogg", ".ogv", ".flv", ".jpg"}

// StoragePath builds the stored location for an upload. Every component
// is transliterated and empty components drop out, so the layout stays
// stable regardless of which attributes a record carries:
//
//	ninecms/{page_type}/{context}/{group}/{filename}
func StoragePath(pageTypeName, context, group, filename string, tables translit.Tables) string {
	parts := []string{"ninecms"}
	for _, part := range []string{pageTypeName, context, group, filename} {
		if cleaned := translit.Filename(part, tables); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	return path.Join(parts...)
}

// ValidateFileExt checks a document filename against the allowed set.
func ValidateFileExt(filename string) error {
	if !hasExtension(filename, fileExtensions) {
		return ErrUnsupportedFileExt
	}
	return nil
}

// ValidateVideoExt checks a video filename against the allowed set.
func ValidateVideoExt(filename string) error {
	if !hasExtension(filename, videoExtensions) {
		return ErrUnsupportedVideoExt
	}
	return nil
}

func hasExtension(filename string, allowed []string) bool {
	ext := strings.ToLower(path.Ext(filename))
	for _, candidate := range allowed {
		if ext == candidate {
			return true
		}
	}
	return false
}
