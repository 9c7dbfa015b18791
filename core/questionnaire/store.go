package questionnaire

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// Store is a read-only view over a validated questionnaire. Accessors hand
// out copies so callers can never mutate the loaded question set.
type Store struct {
	questionnaire Questionnaire
}

func NewStore(questionnaire *Questionnaire) (*Store, error) {
	if questionnaire == nil {
		return nil, fmt.Errorf("questionnaire is required")
	}
	if err := questionnaire.validate(); err != nil {
		return nil, err
	}

	store := &Store{}
	if err := copier.CopyWithOption(&store.questionnaire, questionnaire, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("failed to copy questionnaire: %w", err)
	}
	return store, nil
}

func (s *Store) ID() string           { return s.questionnaire.ID }
func (s *Store) ProjectID() string    { return s.questionnaire.ProjectID }
func (s *Store) AssessmentID() string { return s.questionnaire.AssessmentID }
func (s *Store) Len() int             { return len(s.questionnaire.Questions) }

// First returns the opening question of the session.
func (s *Store) First() Question {
	return cloneQuestion(s.questionnaire.Questions[0])
}

// Lookup finds a question by id.
func (s *Store) Lookup(id string) (Question, bool) {
	for _, question := range s.questionnaire.Questions {
		if question.ID == id {
			return cloneQuestion(question), true
		}
	}
	return Question{}, false
}

// Snapshot returns a deep copy of the whole document.
func (s *Store) Snapshot() Questionnaire {
	var snapshot Questionnaire
	// copier only fails on type mismatches, which cannot happen here
	_ = copier.CopyWithOption(&snapshot, &s.questionnaire, copier.Option{DeepCopy: true})
	return snapshot
}

func cloneQuestion(question Question) Question {
	var clone Question
	_ = copier.CopyWithOption(&clone, &question, copier.Option{DeepCopy: true})
	return clone
}
