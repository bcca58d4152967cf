// Package sqlite implements store.Store on modernc.org/sqlite. It is the
// default driver for local and test use.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pulseboard/pulseboard/internal/model"
	"github.com/pulseboard/pulseboard/internal/pagination"
	"github.com/pulseboard/pulseboard/internal/store"
)

// querier is satisfied by both *sql.DB and *sql.Tx so the transition
// appender can run inside the update transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New constructs a sqlite-backed store over an open connection. The schema
// must already be in place (see EnsureSchema).
func New(db *sql.DB) store.Store { return &sqliteStore{db: db} }

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Updates() store.Updates         { return &updates{db: s.db} }
func (s *sqliteStore) Transitions() store.Transitions { return &transitions{q: s.db} }
func (s *sqliteStore) Comments() store.Comments       { return &comments{db: s.db} }
func (s *sqliteStore) Reactions() store.Reactions     { return &reactions{db: s.db} }

func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- Updates ---

type updates struct{ db *sql.DB }

func (u *updates) Create(ctx context.Context, m *model.StatusUpdate) (*model.StatusUpdate, error) {
	id := m.UpdateID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	_, err := u.db.ExecContext(ctx, `
        INSERT INTO StatusUpdates (UpdateId, Body, Mood, LikesCount, CreationTime, UpdateTime)
        VALUES (?,?,?,0,?,?)`,
		id, m.Body, m.Mood, now, now)
	if err != nil {
		return nil, err
	}
	out := *m
	out.UpdateID = id
	out.LikesCount = 0
	out.CreationTime = now
	out.UpdateTime = now
	return &out, nil
}

func (u *updates) Get(ctx context.Context, updateID string) (*model.StatusUpdate, error) {
	return getUpdate(ctx, u.db, updateID)
}

func getUpdate(ctx context.Context, q querier, updateID string) (*model.StatusUpdate, error) {
	row := q.QueryRowContext(ctx, `
        SELECT UpdateId, Body, Mood, LikesCount, CreationTime, UpdateTime
        FROM StatusUpdates WHERE UpdateId = ?`, updateID)
	var out model.StatusUpdate
	err := row.Scan(&out.UpdateID, &out.Body, &out.Mood, &out.LikesCount, &out.CreationTime, &out.UpdateTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *updates) Update(ctx context.Context, updateID string, patch model.UpdatePatch, hook store.ChangeHook) (*model.StatusUpdate, error) {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	before, err := getUpdate(ctx, tx, updateID)
	if err != nil {
		return nil, err
	}

	after := *before
	if patch.Body != nil {
		after.Body = *patch.Body
	}
	if patch.Mood != nil {
		after.Mood = *patch.Mood
	}
	after.UpdateTime = time.Now().UTC()

	if _, err := tx.ExecContext(ctx, `
        UPDATE StatusUpdates SET Body = ?, Mood = ?, UpdateTime = ? WHERE UpdateId = ?`,
		after.Body, after.Mood, after.UpdateTime, updateID); err != nil {
		return nil, err
	}

	if hook != nil {
		if err := hook(ctx, &transitions{q: tx}, before, &after); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &after, nil
}

func (u *updates) Delete(ctx context.Context, updateID string) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		`DELETE FROM MoodTransitions WHERE UpdateId = ?`,
		`DELETE FROM Comments WHERE UpdateId = ?`,
		`DELETE FROM Reactions WHERE UpdateId = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, updateID); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM StatusUpdates WHERE UpdateId = ?`, updateID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return tx.Commit()
}

func (u *updates) List(ctx context.Context, req model.ListUpdatesRequest) ([]*model.StatusUpdate, int, error) {
	where := `1=1`
	var args []any
	if req.Query != "" {
		where += ` AND Body LIKE ? ESCAPE '\'`
		args = append(args, "%"+pagination.EscapeLike(req.Query)+"%")
	}
	if req.Mood != "" {
		where += ` AND Mood = ?`
		args = append(args, req.Mood)
	}
	if req.Since != nil {
		where += ` AND CreationTime >= ?`
		args = append(args, req.Since.UTC())
	}

	var total int
	if err := u.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM StatusUpdates WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	p := pagination.Params{Page: req.Page, PageSize: req.PageSize}.Clamp()
	rows, err := u.db.QueryContext(ctx, `
        SELECT UpdateId, Body, Mood, LikesCount, CreationTime, UpdateTime
        FROM StatusUpdates WHERE `+where+`
        ORDER BY CreationTime DESC, UpdateId DESC
        LIMIT ? OFFSET ?`, append(args, p.PageSize, p.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	var res []*model.StatusUpdate
	for rows.Next() {
		var m model.StatusUpdate
		if err := rows.Scan(&m.UpdateID, &m.Body, &m.Mood, &m.LikesCount, &m.CreationTime, &m.UpdateTime); err != nil {
			return nil, 0, err
		}
		res = append(res, &m)
	}
	return res, total, rows.Err()
}

func (u *updates) IncrementLikes(ctx context.Context, updateID string) (*model.StatusUpdate, error) {
	res, err := u.db.ExecContext(ctx, `
        UPDATE StatusUpdates SET LikesCount = LikesCount + 1, UpdateTime = ?
        WHERE UpdateId = ?`, time.Now().UTC(), updateID)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, model.ErrNotFound
	}
	return getUpdate(ctx, u.db, updateID)
}

// --- Transitions ---

type transitions struct{ q querier }

func (t *transitions) Append(ctx context.Context, m *model.Transition) (*model.Transition, error) {
	id := m.TransitionID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	res, err := t.q.ExecContext(ctx, `
        INSERT INTO MoodTransitions (TransitionId, UpdateId, FromMood, ToMood, Reason, CreationTime)
        VALUES (?,?,?,?,?,?)`,
		id, m.UpdateID, m.From, m.To, m.Reason, now)
	if err != nil {
		return nil, err
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *m
	out.TransitionID = id
	out.Seq = seq
	out.CreationTime = now
	return &out, nil
}

func (t *transitions) ListForUpdate(ctx context.Context, updateID string, order model.TransitionOrder) ([]*model.Transition, error) {
	dir := "ASC"
	if order == model.OrderReverseChronological {
		dir = "DESC"
	}
	rows, err := t.q.QueryContext(ctx, `
        SELECT TransitionId, Seq, FromMood, ToMood, Reason, CreationTime
        FROM MoodTransitions WHERE UpdateId = ?
        ORDER BY CreationTime `+dir+`, Seq `+dir, updateID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var res []*model.Transition
	for rows.Next() {
		m := model.Transition{UpdateID: updateID}
		if err := rows.Scan(&m.TransitionID, &m.Seq, &m.From, &m.To, &m.Reason, &m.CreationTime); err != nil {
			return nil, err
		}
		res = append(res, &m)
	}
	return res, rows.Err()
}

// --- Comments ---

type comments struct{ db *sql.DB }

func (c *comments) Create(ctx context.Context, m *model.Comment) (*model.Comment, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := getUpdate(ctx, tx, m.UpdateID); err != nil {
		return nil, err
	}

	id := m.CommentID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO Comments (CommentId, UpdateId, Author, Body, CreationTime)
        VALUES (?,?,?,?,?)`,
		id, m.UpdateID, m.Author, m.Body, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	out := *m
	out.CommentID = id
	out.CreationTime = now
	return &out, nil
}

func (c *comments) GetByID(ctx context.Context, updateID, commentID string) (*model.Comment, error) {
	row := c.db.QueryRowContext(ctx, `
        SELECT CommentId, UpdateId, Author, Body, CreationTime
        FROM Comments WHERE UpdateId = ? AND CommentId = ?`, updateID, commentID)
	var out model.Comment
	err := row.Scan(&out.CommentID, &out.UpdateID, &out.Author, &out.Body, &out.CreationTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *comments) List(ctx context.Context, req model.ListCommentsRequest) ([]*model.Comment, int, error) {
	where := `UpdateId = ?`
	args := []any{req.UpdateID}
	if req.Query != "" {
		where += ` AND Body LIKE ? ESCAPE '\'`
		args = append(args, "%"+pagination.EscapeLike(req.Query)+"%")
	}
	if req.Since != nil {
		where += ` AND CreationTime >= ?`
		args = append(args, req.Since.UTC())
	}

	var total int
	if err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM Comments WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	p := pagination.Params{Page: req.Page, PageSize: req.PageSize}.Clamp()
	rows, err := c.db.QueryContext(ctx, `
        SELECT CommentId, UpdateId, Author, Body, CreationTime
        FROM Comments WHERE `+where+`
        ORDER BY CreationTime DESC, CommentId DESC
        LIMIT ? OFFSET ?`, append(args, p.PageSize, p.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	var res []*model.Comment
	for rows.Next() {
		var m model.Comment
		if err := rows.Scan(&m.CommentID, &m.UpdateID, &m.Author, &m.Body, &m.CreationTime); err != nil {
			return nil, 0, err
		}
		res = append(res, &m)
	}
	return res, total, rows.Err()
}

func (c *comments) Delete(ctx context.Context, updateID, commentID string) error {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM Comments WHERE UpdateId = ? AND CommentId = ?`, updateID, commentID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// --- Reactions ---

type reactions struct{ db *sql.DB }

func (r *reactions) Toggle(ctx context.Context, m *model.Reaction) (*model.Reaction, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := getUpdate(ctx, tx, m.UpdateID); err != nil {
		return nil, false, err
	}

	var existing string
	err = tx.QueryRowContext(ctx, `
        SELECT ReactionId FROM Reactions WHERE UpdateId = ? AND Kind = ? AND Actor = ?`,
		m.UpdateID, m.Kind, m.Actor).Scan(&existing)
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx, `DELETE FROM Reactions WHERE ReactionId = ?`, existing); err != nil {
			return nil, false, err
		}
		return nil, false, tx.Commit()
	case errors.Is(err, sql.ErrNoRows):
		id := uuid.New().String()
		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO Reactions (ReactionId, UpdateId, Kind, Actor, CreationTime)
            VALUES (?,?,?,?,?)`,
			id, m.UpdateID, m.Kind, m.Actor, now); err != nil {
			return nil, false, err
		}
		if err := tx.Commit(); err != nil {
			return nil, false, err
		}
		out := *m
		out.ReactionID = id
		out.CreationTime = now
		return &out, true, nil
	default:
		return nil, false, err
	}
}

func (r *reactions) Delete(ctx context.Context, updateID, kind, actor string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM Reactions WHERE UpdateId = ? AND Kind = ? AND Actor = ?`, updateID, kind, actor)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *reactions) GroupCounts(ctx context.Context, updateID string) ([]*model.ReactionGroup, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT Kind, COUNT(*) FROM Reactions WHERE UpdateId = ?
        GROUP BY Kind ORDER BY Kind`, updateID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var res []*model.ReactionGroup
	for rows.Next() {
		var g model.ReactionGroup
		if err := rows.Scan(&g.Kind, &g.Count); err != nil {
			return nil, err
		}
		res = append(res, &g)
	}
	return res, rows.Err()
}
