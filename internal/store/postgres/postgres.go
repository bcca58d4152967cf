// Package postgres implements store.Store on PostgreSQL via the pgx stdlib
// driver. SQL semantics match the sqlite driver; both run the storetest
// conformance suite.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/pulseboard/pulseboard/internal/model"
	"github.com/pulseboard/pulseboard/internal/pagination"
	"github.com/pulseboard/pulseboard/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and
// verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the core tables if they do not exist.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS status_updates (
            update_id TEXT PRIMARY KEY,
            body TEXT NOT NULL,
            mood TEXT NOT NULL,
            likes_count INTEGER NOT NULL DEFAULT 0,
            creation_time TIMESTAMPTZ NOT NULL,
            update_time TIMESTAMPTZ NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS mood_transitions (
            seq BIGSERIAL PRIMARY KEY,
            transition_id TEXT NOT NULL UNIQUE,
            update_id TEXT NOT NULL,
            from_mood TEXT,
            to_mood TEXT NOT NULL,
            reason TEXT,
            creation_time TIMESTAMPTZ NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS mood_transitions_update_idx
            ON mood_transitions(update_id, creation_time)`,
		`CREATE TABLE IF NOT EXISTS comments (
            comment_id TEXT PRIMARY KEY,
            update_id TEXT NOT NULL,
            author TEXT NOT NULL,
            body TEXT NOT NULL,
            creation_time TIMESTAMPTZ NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS comments_update_idx
            ON comments(update_id, creation_time)`,
		`CREATE TABLE IF NOT EXISTS reactions (
            reaction_id TEXT PRIMARY KEY,
            update_id TEXT NOT NULL,
            kind TEXT NOT NULL,
            actor TEXT NOT NULL,
            creation_time TIMESTAMPTZ NOT NULL,
            UNIQUE(update_id, kind, actor)
        )`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// New constructs a postgres-backed store over an open connection.
func New(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Updates() store.Updates         { return &updates{db: s.db} }
func (s *pgStore) Transitions() store.Transitions { return &transitions{q: s.db} }
func (s *pgStore) Comments() store.Comments       { return &comments{db: s.db} }
func (s *pgStore) Reactions() store.Reactions     { return &reactions{db: s.db} }

func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
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
        INSERT INTO status_updates (update_id, body, mood, likes_count, creation_time, update_time)
        VALUES ($1,$2,$3,0,$4,$5)`,
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
        SELECT update_id, body, mood, likes_count, creation_time, update_time
        FROM status_updates WHERE update_id = $1`, updateID)
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

// getUpdateForUpdate reads the row under FOR UPDATE so a racing mutation on
// the same update serializes before the pre-image is taken.
func getUpdateForUpdate(ctx context.Context, tx *sql.Tx, updateID string) (*model.StatusUpdate, error) {
	row := tx.QueryRowContext(ctx, `
        SELECT update_id, body, mood, likes_count, creation_time, update_time
        FROM status_updates WHERE update_id = $1 FOR UPDATE`, updateID)
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

	before, err := getUpdateForUpdate(ctx, tx, updateID)
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
        UPDATE status_updates SET body = $1, mood = $2, update_time = $3 WHERE update_id = $4`,
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

	// Lock the parent before sweeping children: child writers take the same
	// row lock, so none of their inserts can land between the sweep and the
	// parent delete.
	if _, err := getUpdateForUpdate(ctx, tx, updateID); err != nil {
		return err
	}

	for _, stmt := range []string{
		`DELETE FROM mood_transitions WHERE update_id = $1`,
		`DELETE FROM comments WHERE update_id = $1`,
		`DELETE FROM reactions WHERE update_id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, updateID); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM status_updates WHERE update_id = $1`, updateID); err != nil {
		return err
	}
	return tx.Commit()
}

func (u *updates) List(ctx context.Context, req model.ListUpdatesRequest) ([]*model.StatusUpdate, int, error) {
	where := `1=1`
	var args []any
	if req.Query != "" {
		args = append(args, "%"+pagination.EscapeLike(req.Query)+"%")
		where += fmt.Sprintf(` AND body ILIKE $%d ESCAPE '\'`, len(args))
	}
	if req.Mood != "" {
		args = append(args, req.Mood)
		where += fmt.Sprintf(` AND mood = $%d`, len(args))
	}
	if req.Since != nil {
		args = append(args, req.Since.UTC())
		where += fmt.Sprintf(` AND creation_time >= $%d`, len(args))
	}

	var total int
	if err := u.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM status_updates WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	p := pagination.Params{Page: req.Page, PageSize: req.PageSize}.Clamp()
	args = append(args, p.PageSize, p.Offset())
	rows, err := u.db.QueryContext(ctx, fmt.Sprintf(`
        SELECT update_id, body, mood, likes_count, creation_time, update_time
        FROM status_updates WHERE %s
        ORDER BY creation_time DESC, update_id DESC
        LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args)), args...)
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
	row := u.db.QueryRowContext(ctx, `
        UPDATE status_updates SET likes_count = likes_count + 1, update_time = $1
        WHERE update_id = $2
        RETURNING update_id, body, mood, likes_count, creation_time, update_time`,
		time.Now().UTC(), updateID)
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

// --- Transitions ---

type transitions struct{ q querier }

func (t *transitions) Append(ctx context.Context, m *model.Transition) (*model.Transition, error) {
	id := m.TransitionID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	var seq int64
	row := t.q.QueryRowContext(ctx, `
        INSERT INTO mood_transitions (transition_id, update_id, from_mood, to_mood, reason, creation_time)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING seq`,
		id, m.UpdateID, m.From, m.To, m.Reason, now)
	if err := row.Scan(&seq); err != nil {
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
	rows, err := t.q.QueryContext(ctx, fmt.Sprintf(`
        SELECT transition_id, seq, from_mood, to_mood, reason, creation_time
        FROM mood_transitions WHERE update_id = $1
        ORDER BY creation_time %s, seq %s`, dir, dir), updateID)
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

	if _, err := getUpdateForUpdate(ctx, tx, m.UpdateID); err != nil {
		return nil, err
	}

	id := m.CommentID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO comments (comment_id, update_id, author, body, creation_time)
        VALUES ($1,$2,$3,$4,$5)`,
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
        SELECT comment_id, update_id, author, body, creation_time
        FROM comments WHERE update_id = $1 AND comment_id = $2`, updateID, commentID)
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
	where := `update_id = $1`
	args := []any{req.UpdateID}
	if req.Query != "" {
		args = append(args, "%"+pagination.EscapeLike(req.Query)+"%")
		where += fmt.Sprintf(` AND body ILIKE $%d ESCAPE '\'`, len(args))
	}
	if req.Since != nil {
		args = append(args, req.Since.UTC())
		where += fmt.Sprintf(` AND creation_time >= $%d`, len(args))
	}

	var total int
	if err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	p := pagination.Params{Page: req.Page, PageSize: req.PageSize}.Clamp()
	args = append(args, p.PageSize, p.Offset())
	rows, err := c.db.QueryContext(ctx, fmt.Sprintf(`
        SELECT comment_id, update_id, author, body, creation_time
        FROM comments WHERE %s
        ORDER BY creation_time DESC, comment_id DESC
        LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args)), args...)
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
		`DELETE FROM comments WHERE update_id = $1 AND comment_id = $2`, updateID, commentID)
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

	if _, err := getUpdateForUpdate(ctx, tx, m.UpdateID); err != nil {
		return nil, false, err
	}

	var existing string
	err = tx.QueryRowContext(ctx, `
        SELECT reaction_id FROM reactions WHERE update_id = $1 AND kind = $2 AND actor = $3`,
		m.UpdateID, m.Kind, m.Actor).Scan(&existing)
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx, `DELETE FROM reactions WHERE reaction_id = $1`, existing); err != nil {
			return nil, false, err
		}
		return nil, false, tx.Commit()
	case errors.Is(err, sql.ErrNoRows):
		id := uuid.New().String()
		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO reactions (reaction_id, update_id, kind, actor, creation_time)
            VALUES ($1,$2,$3,$4,$5)`,
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
		`DELETE FROM reactions WHERE update_id = $1 AND kind = $2 AND actor = $3`, updateID, kind, actor)
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
        SELECT kind, COUNT(*) FROM reactions WHERE update_id = $1
        GROUP BY kind ORDER BY kind`, updateID)
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
