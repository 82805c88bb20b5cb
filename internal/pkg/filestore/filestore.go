package filestore

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var ErrUnsupportedType = errors.New("unsupported file type")

const maxImageSizeBytes = 5 * 1024 * 1024

var allowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

// Store writes uploaded images under a base directory, one
// subdirectory per kind of image (profiles, covers).
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{
		baseDir: baseDir,
	}
}

// SaveImage sniffs the upload's content type, rejects anything that is
// not an image, and saves it under a fresh UUID filename. It returns
// the stored filename relative to the base directory.
func (s *Store) SaveImage(c *gin.Context, fileHeader *multipart.FileHeader, kind string) (string, error) {
	if fileHeader.Size > maxImageSizeBytes {
		return "", fmt.Errorf("file size exceeds maximum of %d MB", maxImageSizeBytes/(1024*1024))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	buffer := make([]byte, 512)
	if _, err = src.Read(buffer); err != nil {
		return "", err
	}
	mimeType := http.DetectContentType(buffer)

	allowed := false
	for _, t := range allowedImageTypes {
		if mimeType == t {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", ErrUnsupportedType
	}

	dir := filepath.Join(s.baseDir, kind)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, filepath.Join(dir, filename)); err != nil {
		return "", err
	}

	return filepath.Join(kind, filename), nil
}

// Remove deletes a previously stored file. Missing files are not an
// error, so replacing an image never fails on cleanup.
func (s *Store) Remove(relPath string) error {
	err := os.Remove(filepath.Join(s.baseDir, relPath))
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}
