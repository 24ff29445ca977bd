package model

import "time"

// Follow is a directed subscription edge: UserID follows AuthorID. At most
// one edge exists per pair; creation uses get-or-create semantics so a
// repeated follow is a no-op, as is unfollowing an absent edge.
type Follow struct {
	UserID    int64     `db:"user_id"`
	AuthorID  int64     `db:"author_id"`
	CreatedAt time.Time `db:"created_at"`
}
