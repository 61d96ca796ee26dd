package utils

import (
	"bytes"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
)

// Attachment upload limits. Extension, declared content type and the leading
// bytes of the file must all agree before anything is written to disk.
const MaxAttachmentSize = 10 * 1024 * 1024 // 10MB

var allowedContentTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.ms-powerpoint",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"text/plain",
	"image/jpeg",
	"image/jpg",
	"image/png",
}

var allowedExtensions = []string{
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".txt", ".jpg", ".jpeg", ".png",
}

func AllowedAttachmentExtension(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	return slices.Contains(allowedExtensions, ext)
}

func AllowedAttachmentContentType(contentType string) bool {
	return slices.Contains(allowedContentTypes, contentType)
}

// ValidFileSignature checks the magic bytes of the file head against the
// extension. head should hold at least the first 8 bytes of the file.
func ValidFileSignature(fileName string, head []byte) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".pdf":
		return bytes.HasPrefix(head, []byte("%PDF"))
	case ".doc", ".xls", ".ppt":
		// OLE compound document
		return bytes.HasPrefix(head, []byte{0xD0, 0xCF, 0x11, 0xE0})
	case ".docx", ".xlsx", ".pptx":
		// ZIP container
		return bytes.HasPrefix(head, []byte{0x50, 0x4B, 0x03, 0x04})
	case ".txt":
		return true
	case ".jpg", ".jpeg":
		return bytes.HasPrefix(head, []byte{0xFF, 0xD8, 0xFF})
	case ".png":
		return bytes.HasPrefix(head, []byte{0x89, 0x50, 0x4E, 0x47})
	default:
		return false
	}
}
