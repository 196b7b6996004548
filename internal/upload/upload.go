package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// URLPrefix is where the router serves saved files from.
const URLPrefix = "/uploads"

type Store struct {
	Dir string
}

// Save writes an uploaded file under a random name and returns the public
// URL path clients should use to fetch it.
func (s *Store) Save(file *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("upload: create dir: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("upload: open source: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(file.Filename)
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("upload: create target: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("upload: copy: %w", err)
	}

	return path.Join(URLPrefix, name), nil
}
