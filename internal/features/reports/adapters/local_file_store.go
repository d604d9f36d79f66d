package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"patrol-verifier/internal/core/logger"
	"patrol-verifier/internal/features/reports/domain"

	"go.uber.org/zap"
)

// LocalFileStore implements ports.FileStore on the local filesystem.
// Files are laid out as <root>/client_<id>/reports/report_<id>/<timestamp>_<name>.
type LocalFileStore struct {
	root string
	now  func() time.Time
}

// NewLocalFileStore creates a new LocalFileStore rooted at root.
func NewLocalFileStore(root string) *LocalFileStore {
	return &LocalFileStore{
		root: root,
		now:  time.Now,
	}
}

// Save writes data atomically and returns the path of the stored file.
func (s *LocalFileStore) Save(ctx context.Context, data []byte, clientID int64, reportID, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root,
		fmt.Sprintf("client_%d", clientID),
		"reports",
		"report_"+domain.SecureFilename(reportID),
	)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := domain.SecureFilename(s.now().Format("20060102_150405") + "_" + filename)
	path := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	logger.Get().Info("Report file saved",
		zap.String("path", path),
		zap.Int("bytes", len(data)),
	)
	return path, nil
}
