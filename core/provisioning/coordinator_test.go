package provisioning

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/radpretation/surveyvoice-core/core/questionnaire"
)

type countingStore struct {
	document     *questionnaire.Questionnaire
	credentials  *Credentials
	loadErr      error
	cleanupCalls atomic.Int32
}

func (s *countingStore) Load(context.Context, string) (*questionnaire.Questionnaire, *Credentials, error) {
	if s.loadErr != nil {
		return nil, nil, s.loadErr
	}
	return s.document, s.credentials, nil
}

func (s *countingStore) Cleanup(context.Context, string) error {
	s.cleanupCalls.Add(1)
	return nil
}

func validQuestionnaire() *questionnaire.Questionnaire {
	return &questionnaire.Questionnaire{
		ID: "qnr-1",
		Questions: []questionnaire.Question{
			{ID: "q1", Text: "Anything else?", Type: questionnaire.TypeOpenText},
		},
	}
}

func TestProvisionBuildsAStoreFromTheLoadedDocument(t *testing.T) {
	backing := &countingStore{document: validQuestionnaire(), credentials: NewCredentials("secret")}
	coordinator := NewCoordinator(backing, "session-1")

	store, credentials, err := coordinator.Provision(context.Background())
	if err != nil {
		t.Fatalf("expected provision to succeed, got %v", err)
	}
	if store.First().ID != "q1" {
		t.Fatalf("expected the first question to be q1, got %q", store.First().ID)
	}
	if credentials.Token() != "secret" {
		t.Fatalf("expected the loaded credentials, got %q", credentials.Token())
	}
}

func TestProvisionSurfacesLoadFailures(t *testing.T) {
	backing := &countingStore{loadErr: errors.New("artifacts missing")}
	coordinator := NewCoordinator(backing, "session-1")

	if _, _, err := coordinator.Provision(context.Background()); err == nil {
		t.Fatalf("expected provision to fail when loading fails")
	}
}

func TestProvisionRejectsInvalidDocuments(t *testing.T) {
	backing := &countingStore{document: &questionnaire.Questionnaire{ID: "qnr-1"}, credentials: NewCredentials("secret")}
	coordinator := NewCoordinator(backing, "session-1")

	if _, _, err := coordinator.Provision(context.Background()); !errors.Is(err, ErrProvisioning) {
		t.Fatalf("expected ErrProvisioning, got %v", err)
	}
}

func TestCloseRunsCleanupExactlyOnce(t *testing.T) {
	backing := &countingStore{document: validQuestionnaire(), credentials: NewCredentials("secret")}
	coordinator := NewCoordinator(backing, "session-1")

	for i := 0; i < 3; i++ {
		coordinator.Close(context.Background())
	}

	if got := backing.cleanupCalls.Load(); got != 1 {
		t.Fatalf("expected exactly one cleanup, got %d", got)
	}
}

func TestOnCloseHandlersRunAfterCleanup(t *testing.T) {
	backing := &countingStore{document: validQuestionnaire(), credentials: NewCredentials("secret")}
	coordinator := NewCoordinator(backing, "session-1")

	var cleanupsSeen int32
	coordinator.OnClose(func() {
		cleanupsSeen = backing.cleanupCalls.Load()
	})

	coordinator.Close(context.Background())

	if cleanupsSeen != 1 {
		t.Fatalf("expected the handler to run after cleanup, saw %d cleanups", cleanupsSeen)
	}
}

func TestOnCloseAfterCloseRunsImmediately(t *testing.T) {
	backing := &countingStore{document: validQuestionnaire(), credentials: NewCredentials("secret")}
	coordinator := NewCoordinator(backing, "session-1")

	coordinator.Close(context.Background())

	ran := false
	coordinator.OnClose(func() { ran = true })
	if !ran {
		t.Fatalf("expected a handler registered after close to run immediately")
	}
}
