package sqlite

import "database/sql"

// EnsureSchema creates the four core tables if they do not exist.
// Referential integrity between parents and children is enforced by the
// application layer (cascade deletes run in the same transaction), so the
// schema carries indexes and uniqueness constraints only.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS StatusUpdates (
            UpdateId TEXT PRIMARY KEY,
            Body TEXT NOT NULL,
            Mood TEXT NOT NULL,
            LikesCount INTEGER NOT NULL DEFAULT 0,
            CreationTime TIMESTAMP NOT NULL,
            UpdateTime TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS MoodTransitions (
            Seq INTEGER PRIMARY KEY AUTOINCREMENT,
            TransitionId TEXT NOT NULL UNIQUE,
            UpdateId TEXT NOT NULL,
            FromMood TEXT,
            ToMood TEXT NOT NULL,
            Reason TEXT,
            CreationTime TIMESTAMP NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS MoodTransitions_Update_Idx
            ON MoodTransitions(UpdateId, CreationTime);`,
		`CREATE TABLE IF NOT EXISTS Comments (
            CommentId TEXT PRIMARY KEY,
            UpdateId TEXT NOT NULL,
            Author TEXT NOT NULL,
            Body TEXT NOT NULL,
            CreationTime TIMESTAMP NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS Comments_Update_Idx
            ON Comments(UpdateId, CreationTime);`,
		`CREATE TABLE IF NOT EXISTS Reactions (
            ReactionId TEXT PRIMARY KEY,
            UpdateId TEXT NOT NULL,
            Kind TEXT NOT NULL,
            Actor TEXT NOT NULL,
            CreationTime TIMESTAMP NOT NULL,
            UNIQUE(UpdateId, Kind, Actor)
        );`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
