package provisioning

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/radpretation/surveyvoice-core/core/questionnaire"
)

const (
	questionnaireFileName = "questions.json"
	tokenFileName         = "token.txt"
)

// FileStore keeps each session's artifacts in a directory named after the
// session id: a questionnaire document and a bearer token file.
type FileStore struct {
	root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

func (s *FileStore) sessionDir(sessionID string) string {
	return filepath.Join(s.root, sessionID)
}

func (s *FileStore) Load(ctx context.Context, sessionID string) (*questionnaire.Questionnaire, *Credentials, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	dir := s.sessionDir(sessionID)

	document, err := os.ReadFile(filepath.Join(dir, questionnaireFileName))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read questionnaire document: %v", ErrProvisioning, err)
	}

	parsed, err := questionnaire.Parse(document)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrProvisioning, err)
	}

	tokenBytes, err := os.ReadFile(filepath.Join(dir, tokenFileName))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read session token: %v", ErrProvisioning, err)
	}

	token := strings.TrimSpace(string(tokenBytes))
	if token == "" {
		return nil, nil, fmt.Errorf("%w: session token is empty", ErrProvisioning)
	}

	return parsed, NewCredentials(token), nil
}

// Cleanup removes the session's artifacts. Artifacts that are already gone
// are skipped silently so cleanup can run on every close path.
func (s *FileStore) Cleanup(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := s.sessionDir(sessionID)

	var cleanupErr error
	for _, name := range []string{questionnaireFileName, tokenFileName} {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			cleanupErr = errors.Join(cleanupErr, fmt.Errorf("failed to remove %s: %w", name, err))
		}
	}

	// best-effort: the directory may hold unrelated files or already be gone
	_ = os.Remove(dir)

	return cleanupErr
}
