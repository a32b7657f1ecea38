// Package question persists conversation turns in the relational store.
package question

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/peroute/hackwest-project/internal/db/sqldb"
	"github.com/peroute/hackwest-project/internal/domain/conversation"
)

// Repo implements the turn store of usecase/conversation and usecase/ask.
type Repo struct {
	db *sqldb.DB
}

// New creates a question repository.
func New(d *sqldb.DB) *Repo {
	return &Repo{db: d}
}

// Append stores a turn and returns its id.
func (r *Repo) Append(ctx context.Context, t conversation.Turn) (int64, error) {
	var score any
	if t.TopScore != nil {
		score = strconv.FormatFloat(*t.TopScore, 'f', -1, 64)
	}
	var user any
	if t.UserID != nil {
		user = *t.UserID
	}
	created := t.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	var id int64
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		INSERT INTO questions (question_text, answer_text, user_id, similarity_score, created_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`),
		t.Question, t.Answer, user, score, sqldb.Millis(created),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}
	return id, nil
}

// Recent returns up to limit turns of a user, newest first (ties broken by id).
func (r *Repo) Recent(ctx context.Context, userID int64, limit int) ([]conversation.Turn, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT id, question_text, answer_text, user_id, similarity_score, created_at
		FROM questions WHERE user_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	turns := []conversation.Turn{}
	for rows.Next() {
		t, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// Prune keeps the keep most recent turns of a user and deletes the rest in one statement.
func (r *Repo) Prune(ctx context.Context, userID int64, keep int) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		DELETE FROM questions
		WHERE user_id = ? AND id NOT IN (
			SELECT id FROM questions WHERE user_id = ?
			ORDER BY created_at DESC, id DESC LIMIT ?
		)`), userID, userID, keep)
	if err != nil {
		return 0, fmt.Errorf("prune questions of user %d: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// UsersWithHistory returns the distinct ids of users that have at least one turn.
func (r *Repo) UsersWithHistory(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT user_id FROM questions WHERE user_id IS NOT NULL ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("query question users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Count returns the number of turns created at or after since. Zero since counts all.
func (r *Repo) Count(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, r.db.Rebind(
		`SELECT COUNT(*) FROM questions WHERE created_at >= ?`), sinceMillis(since)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

// CountByUser returns the number of turns of a user created at or after since.
func (r *Repo) CountByUser(ctx context.Context, userID int64, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, r.db.Rebind(
		`SELECT COUNT(*) FROM questions WHERE user_id = ? AND created_at >= ?`),
		userID, sinceMillis(since)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count questions of user %d: %w", userID, err)
	}
	return n, nil
}

func sinceMillis(since time.Time) int64 {
	if since.IsZero() {
		return 0
	}
	return sqldb.Millis(since)
}

func scanTurn(rows *sql.Rows) (conversation.Turn, error) {
	var (
		t       conversation.Turn
		answer  sql.NullString
		user    sql.NullInt64
		score   sql.NullString
		created int64
	)
	if err := rows.Scan(&t.ID, &t.Question, &answer, &user, &score, &created); err != nil {
		return conversation.Turn{}, fmt.Errorf("scan question: %w", err)
	}
	t.Answer = answer.String
	if user.Valid {
		id := user.Int64
		t.UserID = &id
	}
	if score.Valid {
		if v, err := strconv.ParseFloat(score.String, 64); err == nil {
			t.TopScore = &v
		}
	}
	t.CreatedAt = sqldb.FromMillis(created)
	return t, nil
}
