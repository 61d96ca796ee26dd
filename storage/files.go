package storage

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// UploadDir is where meeting attachments land on disk. Overridable via
// UPLOAD_DIR for deployments with a mounted volume.
var UploadDir = "uploads/meeting-attachments"

func InitializeUploads() {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		UploadDir = dir
	}
	if err := os.MkdirAll(UploadDir, 0o755); err != nil {
		log.Panic("error creating upload dir: " + err.Error())
	}
	log.Println("Uploads initialized at:", UploadDir)
}

// SaveUpload writes an attachment to disk under a collision-free name and
// returns the stored relative path. The caller inserts the metadata row only
// after this succeeds, so a failed write never leaves an orphaned row.
func SaveUpload(fileName string, src io.Reader) (string, error) {
	stored := fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(fileName))
	fullPath := filepath.Join(UploadDir, stored)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(fullPath)
		return "", err
	}
	return fullPath, nil
}
