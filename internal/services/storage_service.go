package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/geopix/server/internal/models"
)

// PhotoStorageService persists original image bytes on the filesystem under
// Year/Month folders with freshly generated opaque names.
type PhotoStorageService struct {
	basePath string
}

// NewPhotoStorageService creates a new PhotoStorageService
func NewPhotoStorageService(basePath string) (*PhotoStorageService, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	// Ensure directory exists
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, err
	}

	return &PhotoStorageService{basePath: absPath}, nil
}

// BasePath returns the absolute storage root
func (s *PhotoStorageService) BasePath() string {
	return s.basePath
}

// Store saves image bytes under a generated name and returns the relative
// storage path. Names are UUIDs so concurrent uploads never collide.
func (s *PhotoStorageService) Store(content []byte, uploadedAt time.Time) (string, error) {
	year := uploadedAt.Format("2006")
	month := uploadedAt.Format("01")
	relativeFolderPath := filepath.Join(year, month)
	absoluteFolderPath := filepath.Join(s.basePath, relativeFolderPath)

	if err := os.MkdirAll(absoluteFolderPath, 0755); err != nil {
		return "", err
	}

	filename := uuid.New().String() + ".jpg"
	relativeFilePath := filepath.Join(relativeFolderPath, filename)
	absoluteFilePath := filepath.Join(s.basePath, relativeFilePath)

	file, err := os.OpenFile(absoluteFilePath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := file.Write(content); err != nil {
		os.Remove(absoluteFilePath) // Clean up on error
		return "", err
	}

	// Return path with forward slashes for consistency
	return strings.ReplaceAll(relativeFilePath, string(os.PathSeparator), "/"), nil
}

// Delete removes a file by its stored path. Best-effort: a missing or
// already-removed file is reported as false, never as a failure.
func (s *PhotoStorageService) Delete(storedPath string) bool {
	if strings.TrimSpace(storedPath) == "" {
		return false
	}

	fullPath, err := s.GetFullPath(storedPath)
	if err != nil {
		return false
	}

	if err := os.Remove(fullPath); err != nil {
		return false
	}

	return true
}

// GetFullPath returns the absolute path for a stored path
func (s *PhotoStorageService) GetFullPath(storedPath string) (string, error) {
	if strings.TrimSpace(storedPath) == "" {
		return "", fmt.Errorf("stored path cannot be empty")
	}

	// Normalize path separators
	normalizedPath := filepath.FromSlash(storedPath)
	fullPath := filepath.Join(s.basePath, normalizedPath)

	// Security check
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", err
	}

	if !strings.HasPrefix(absPath, s.basePath) {
		return "", models.ErrPathTraversal
	}

	return absPath, nil
}

// Exists checks if a file exists at the given stored path
func (s *PhotoStorageService) Exists(storedPath string) bool {
	fullPath, err := s.GetFullPath(storedPath)
	if err != nil {
		return false
	}

	_, err = os.Stat(fullPath)
	return err == nil
}
