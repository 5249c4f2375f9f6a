package questions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/krabbypatty1031-blip/JustAsk/internal/common"
	"github.com/krabbypatty1031-blip/JustAsk/internal/dbx"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/models"
)

const answerColumns = `id, question_id, content, author_id, author_username, thanks, thanked_by, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Question, error) {
	query :=
		`SELECT id, title, content, author_id, author_username, views, created_at
		 FROM questions
		 ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var list []models.Question
	index := make(map[string]int)
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Title, &q.Content, &q.Author.ID, &q.Author.UserName, &q.Views, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		q.Answers = []models.Answer{}
		index[q.ID] = len(list)
		list = append(list, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(list) == 0 {
		return []models.Question{}, nil
	}

	answers, err := r.queryAnswers(ctx,
		`SELECT `+answerColumns+` FROM answers
		 ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	for _, qa := range answers {
		if i, ok := index[qa.questionID]; ok {
			list[i].Answers = append(list[i].Answers, qa.Answer)
		}
	}

	return list, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Question, error) {
	if !validID(id) {
		return nil, common.ErrNotFound
	}

	query :=
		`SELECT id, title, content, author_id, author_username, views, created_at
		 FROM questions
		 WHERE id = $1`

	q := &models.Question{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&q.ID, &q.Title, &q.Content, &q.Author.ID, &q.Author.UserName, &q.Views, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	answers, err := r.queryAnswers(ctx,
		`SELECT `+answerColumns+` FROM answers
		 WHERE question_id = $1
		 ORDER BY created_at, id`, id)
	if err != nil {
		return nil, err
	}
	q.Answers = make([]models.Answer, 0, len(answers))
	for _, qa := range answers {
		q.Answers = append(q.Answers, qa.Answer)
	}

	return q, nil
}

func (r *PostgresRepository) Create(ctx context.Context, q *models.Question) (*models.Question, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO questions (id, title, content, author_id, author_username)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING views, created_at`

	err := r.db.QueryRowContext(ctx, query, q.ID, q.Title, q.Content, q.Author.ID, q.Author.UserName).
		Scan(&q.Views, &q.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	q.Answers = []models.Answer{}

	return q, nil
}

func (r *PostgresRepository) AddAnswer(ctx context.Context, questionID string, a *models.Answer) (*models.Answer, error) {
	if !validID(questionID) {
		return nil, common.ErrNotFound
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO answers (id, question_id, content, author_id, author_username)
		 SELECT $1, $2, $3, $4, $5
		 WHERE EXISTS (SELECT 1 FROM questions WHERE id = $2)
		 RETURNING thanks, created_at`

	err := r.db.QueryRowContext(ctx, query, a.ID, questionID, a.Content, a.Author.ID, a.Author.UserName).
		Scan(&a.Thanks, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	a.ThankedBy = []string{}

	return a, nil
}

func (r *PostgresRepository) IncrementViews(ctx context.Context, id string) error {
	if !validID(id) {
		return common.ErrNotFound
	}

	query := `UPDATE questions SET views = views + 1 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Thank(ctx context.Context, questionID, answerID, userID string) (bool, error) {
	if !validID(questionID) || !validID(answerID) {
		return false, nil
	}

	// Row lock plus predicate re-check serialises concurrent thanks on one answer.
	query :=
		`UPDATE answers
		 SET thanks = thanks + 1, thanked_by = array_append(thanked_by, $3)
		 WHERE id = $2 AND question_id = $1 AND NOT ($3 = ANY(thanked_by))`

	res, err := r.db.ExecContext(ctx, query, questionID, answerID, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) AnswerExists(ctx context.Context, questionID, answerID string) (bool, error) {
	if !validID(questionID) || !validID(answerID) {
		return false, nil
	}

	query := `SELECT EXISTS (SELECT 1 FROM answers WHERE id = $2 AND question_id = $1)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, questionID, answerID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

type questionAnswer struct {
	models.Answer
	questionID string
}

func (r *PostgresRepository) queryAnswers(ctx context.Context, query string, args ...any) ([]questionAnswer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	// thanked_by is a text[]; database/sql needs pgtype's help to scan it.
	types := pgtype.NewMap()
	var out []questionAnswer
	for rows.Next() {
		var qa questionAnswer
		if err := rows.Scan(&qa.ID, &qa.questionID, &qa.Content, &qa.Author.ID, &qa.Author.UserName,
			&qa.Thanks, types.SQLScanner(&qa.ThankedBy), &qa.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if qa.ThankedBy == nil {
			qa.ThankedBy = []string{}
		}
		out = append(out, qa)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// validID accepts only the canonical hyphenated form stored in the database.
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
