package provisioning

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sessionDocument = `{
	"id": "qnr-1",
	"assessmentId": "assess-1",
	"questions": [
		{"_id": "q1", "text": "Anything else?", "type": "open_text"}
	]
}`

func writeSessionArtifacts(t *testing.T, root, sessionID, document, token string) {
	t.Helper()

	dir := filepath.Join(root, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create session dir: %v", err)
	}
	if document != "" {
		if err := os.WriteFile(filepath.Join(dir, "questions.json"), []byte(document), 0o644); err != nil {
			t.Fatalf("failed to write questionnaire document: %v", err)
		}
	}
	if token != "" {
		if err := os.WriteFile(filepath.Join(dir, "token.txt"), []byte(token), 0o644); err != nil {
			t.Fatalf("failed to write token file: %v", err)
		}
	}
}

func TestFileStoreLoadsSessionArtifacts(t *testing.T) {
	root := t.TempDir()
	writeSessionArtifacts(t, root, "session-1", sessionDocument, "secret-token\n")

	store := NewFileStore(root)

	document, credentials, err := store.Load(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}
	if document.AssessmentID != "assess-1" {
		t.Fatalf("expected assessment id assess-1, got %q", document.AssessmentID)
	}
	if credentials.Token() != "secret-token" {
		t.Fatalf("expected the token to be trimmed, got %q", credentials.Token())
	}
}

func TestFileStoreLoadFailures(t *testing.T) {
	cases := []struct {
		name     string
		document string
		token    string
	}{
		{name: "missing document", document: "", token: "secret"},
		{name: "malformed document", document: `{"questions": []}`, token: "secret"},
		{name: "missing token", document: sessionDocument, token: ""},
		{name: "blank token", document: sessionDocument, token: "   \n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			writeSessionArtifacts(t, root, "session-1", tc.document, tc.token)

			store := NewFileStore(root)
			if _, _, err := store.Load(context.Background(), "session-1"); !errors.Is(err, ErrProvisioning) {
				t.Fatalf("expected ErrProvisioning, got %v", err)
			}
		})
	}
}

func TestFileStoreCredentialsNeverFormatTheToken(t *testing.T) {
	credentials := NewCredentials("very-secret")

	for _, formatted := range []string{
		fmt.Sprintf("%s", credentials),
		fmt.Sprintf("%v", credentials),
		fmt.Sprintf("%#v", credentials),
	} {
		if strings.Contains(formatted, "very-secret") {
			t.Fatalf("expected formatted credentials to redact the token, got %q", formatted)
		}
	}
}

func TestFileStoreCleanupRemovesArtifacts(t *testing.T) {
	root := t.TempDir()
	writeSessionArtifacts(t, root, "session-1", sessionDocument, "secret")

	store := NewFileStore(root)
	if err := store.Cleanup(context.Background(), "session-1"); err != nil {
		t.Fatalf("expected cleanup to succeed, got %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "session-1", "questions.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected questionnaire document to be removed, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "session-1", "token.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected token file to be removed, got %v", err)
	}
}

func TestFileStoreCleanupIsSafeToRepeat(t *testing.T) {
	root := t.TempDir()
	writeSessionArtifacts(t, root, "session-1", sessionDocument, "secret")

	store := NewFileStore(root)
	for i := 0; i < 3; i++ {
		if err := store.Cleanup(context.Background(), "session-1"); err != nil {
			t.Fatalf("expected cleanup pass %d to succeed, got %v", i, err)
		}
	}
}

func TestFileStoreCleanupOfUnknownSessionIsANoop(t *testing.T) {
	store := NewFileStore(t.TempDir())
	if err := store.Cleanup(context.Background(), "never-provisioned"); err != nil {
		t.Fatalf("expected cleanup of an unknown session to succeed, got %v", err)
	}
}
