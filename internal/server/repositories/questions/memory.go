package questions

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/krabbypatty1031-blip/JustAsk/internal/common"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/models"
)

// MemoryRepository keeps questions in process memory. A single lock guards
// every aggregate, so Thank's check and mutation happen as one step.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*models.Question
	order []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*models.Question)}
}

func (r *MemoryRepository) List(_ context.Context) ([]models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Question, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, cloneQuestion(r.byID[r.order[i]]))
	}
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := cloneQuestion(q)
	return &c, nil
}

func (r *MemoryRepository) Create(_ context.Context, q *models.Question) (*models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.Views = 0
	q.CreatedAt = time.Now().UTC()
	q.Answers = []models.Answer{}

	stored := cloneQuestion(q)
	r.byID[q.ID] = &stored
	r.order = append(r.order, q.ID)

	return q, nil
}

func (r *MemoryRepository) AddAnswer(_ context.Context, questionID string, a *models.Answer) (*models.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.byID[questionID]
	if !ok {
		return nil, common.ErrNotFound
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Thanks = 0
	a.ThankedBy = []string{}
	a.CreatedAt = time.Now().UTC()

	stored := *a
	stored.ThankedBy = []string{}
	q.Answers = append(q.Answers, stored)

	return a, nil
}

func (r *MemoryRepository) IncrementViews(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	q.Views++
	return nil
}

func (r *MemoryRepository) Thank(_ context.Context, questionID, answerID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := r.answerLocked(questionID, answerID)
	if a == nil || slices.Contains(a.ThankedBy, userID) {
		return false, nil
	}
	a.ThankedBy = append(a.ThankedBy, userID)
	a.Thanks++
	return true, nil
}

func (r *MemoryRepository) AnswerExists(_ context.Context, questionID, answerID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.answerLocked(questionID, answerID) != nil, nil
}

func (r *MemoryRepository) answerLocked(questionID, answerID string) *models.Answer {
	q, ok := r.byID[questionID]
	if !ok {
		return nil
	}
	for i := range q.Answers {
		if q.Answers[i].ID == answerID {
			return &q.Answers[i]
		}
	}
	return nil
}

func cloneQuestion(q *models.Question) models.Question {
	c := *q
	c.Answers = make([]models.Answer, len(q.Answers))
	for i, a := range q.Answers {
		a.ThankedBy = slices.Clone(a.ThankedBy)
		if a.ThankedBy == nil {
			a.ThankedBy = []string{}
		}
		c.Answers[i] = a
	}
	return c
}
