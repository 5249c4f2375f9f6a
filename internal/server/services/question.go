package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/krabbypatty1031-blip/JustAsk/internal/common"
	"github.com/krabbypatty1031-blip/JustAsk/internal/dbx"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/models"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/repositories/repomanager"
)

// QuestionService manages questions, their answers, view counts and thanks.
type QuestionService struct {
	repomanager repomanager.RepositoryManager
}

func NewQuestionService(m repomanager.RepositoryManager) *QuestionService {
	return &QuestionService{repomanager: m}
}

func (s *QuestionService) List(ctx context.Context) ([]models.Question, error) {
	list, err := s.repomanager.Questions(s.repomanager.Conn()).List(ctx)
	if err != nil {
		return nil, internal("list questions", err)
	}
	return list, nil
}

// View counts one view of the question and returns it.
func (s *QuestionService) View(ctx context.Context, id string) (*models.Question, error) {
	if !isID(id) {
		return nil, common.WithMessage(common.ErrNotFound, msgQuestionNotFound)
	}

	var q *models.Question
	err := s.repomanager.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Questions(tx)
		if err := repo.IncrementViews(ctx, id); err != nil {
			return err
		}
		var err error
		q, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.WithMessage(common.ErrNotFound, msgQuestionNotFound)
		}
		return nil, internal("view question", err)
	}
	return q, nil
}

func (s *QuestionService) Create(ctx context.Context, author models.Author, title, content string) (*models.Question, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, common.WithMessage(common.ErrValidation, msgQuestionFields)
	}

	q, err := s.repomanager.Questions(s.repomanager.Conn()).Create(ctx, &models.Question{
		Title:   title,
		Content: content,
		Author:  author,
	})
	if err != nil {
		return nil, internal("create question", err)
	}
	return q, nil
}

func (s *QuestionService) AddAnswer(ctx context.Context, author models.Author, questionID, content string) (*models.Answer, error) {
	if strings.TrimSpace(content) == "" {
		return nil, common.WithMessage(common.ErrValidation, msgAnswerContent)
	}
	if !isID(questionID) {
		return nil, common.WithMessage(common.ErrNotFound, msgQuestionNotFound)
	}

	a, err := s.repomanager.Questions(s.repomanager.Conn()).AddAnswer(ctx, questionID, &models.Answer{
		Content: content,
		Author:  author,
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.WithMessage(common.ErrNotFound, msgQuestionNotFound)
		}
		return nil, internal("add answer", err)
	}
	return a, nil
}

// Thank records that userID thanked the answer. Each user may thank an
// answer once; a repeat yields ErrConflict and an unknown answer ErrNotFound.
func (s *QuestionService) Thank(ctx context.Context, questionID, answerID, userID string) error {
	if !isID(questionID) || !isID(answerID) {
		return common.WithMessage(common.ErrNotFound, msgAnswerNotFound)
	}

	repo := s.repomanager.Questions(s.repomanager.Conn())
	applied, err := repo.Thank(ctx, questionID, answerID, userID)
	if err != nil {
		return internal("thank answer", err)
	}
	if applied {
		return nil
	}

	// The update matched nothing: either the answer is missing or the user
	// already thanked it.
	exists, err := repo.AnswerExists(ctx, questionID, answerID)
	if err != nil {
		return internal("check answer", err)
	}
	if !exists {
		return common.WithMessage(common.ErrNotFound, msgAnswerNotFound)
	}
	return common.WithMessage(common.ErrConflict, msgAlreadyThanked)
}

func isID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
