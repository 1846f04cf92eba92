package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrResumeNotFound      = errors.New("resume file not found")
	ErrFileTypeNotAllowed  = errors.New("file type not allowed")
	ErrUploadDirNotPresent = errors.New("upload folder does not exist")
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
}

// StorageService keeps resumes on disk as "{appID}_{originalName}".
type StorageService interface {
	SaveResume(appID string, file *multipart.FileHeader) (string, error)
	FindResume(appID string) (string, error)
	ListFiles() ([]string, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
	UploadPath() string
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	if abs, err := filepath.Abs(uploadPath); err == nil {
		uploadPath = abs
	}
	return &storageService{
		uploadPath: uploadPath,
	}
}

// AllowedResume reports whether filename has an accepted resume extension.
func AllowedResume(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

func (s *storageService) UploadPath() string {
	return s.uploadPath
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *storageService) SaveResume(appID string, file *multipart.FileHeader) (string, error) {
	name := filepath.Base(file.Filename)
	if !AllowedResume(name) {
		return "", fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, filepath.Ext(name))
	}

	filename := fmt.Sprintf("%s_%s", appID, name)
	filePath := s.GetFilePath(filename)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filename, nil
}

// FindResume returns the first file, in name order, whose name starts with
// "{appID}_".
func (s *storageService) FindResume(appID string) (string, error) {
	files, err := s.ListFiles()
	if err != nil {
		return "", err
	}

	prefix := appID + "_"
	for _, name := range files {
		if strings.HasPrefix(name, prefix) {
			return name, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrResumeNotFound, appID)
}

func (s *storageService) ListFiles() ([]string, error) {
	entries, err := os.ReadDir(s.uploadPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrUploadDirNotPresent, s.uploadPath)
		}
		return nil, fmt.Errorf("failed to read upload directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	return files, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filepath.Base(filename))
}

func (s *storageService) DeleteFile(filename string) error {
	filePath := s.GetFilePath(filename)
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// ApplicationIDsFromFiles extracts the distinct "MQ-" application ids that
// prefix stored resume names.
func ApplicationIDsFromFiles(files []string) []string {
	seen := map[string]bool{}
	ids := []string{}
	for _, f := range files {
		if !strings.HasPrefix(f, "MQ-") || !strings.Contains(f, "_") {
			continue
		}
		id := strings.SplitN(f, "_", 2)[0]
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
