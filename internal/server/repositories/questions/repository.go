// Package questions stores questions together with their answers.
package questions

import (
	"context"

	"github.com/krabbypatty1031-blip/JustAsk/internal/server/models"
)

// Repository persists the question aggregate. Answers are only ever appended
// and their thank counters only change through Thank.
type Repository interface {
	// List returns all questions, newest first, each with its answers in
	// insertion order.
	List(ctx context.Context) ([]models.Question, error)
	Get(ctx context.Context, id string) (*models.Question, error)
	Create(ctx context.Context, q *models.Question) (*models.Question, error)
	// AddAnswer appends a to the question. ErrNotFound if the question is absent.
	AddAnswer(ctx context.Context, questionID string, a *models.Answer) (*models.Answer, error)
	IncrementViews(ctx context.Context, id string) error
	// Thank atomically records userID as having thanked the answer, only if
	// the answer belongs to the question and userID has not thanked it yet.
	// It reports whether the thank was recorded.
	Thank(ctx context.Context, questionID, answerID, userID string) (bool, error)
	AnswerExists(ctx context.Context, questionID, answerID string) (bool, error)
}
