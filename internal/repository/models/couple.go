package models

import (
	"database/sql"
	"time"
)

// Couple represents a couple row. Pending rows carry a linking code and no
// user2; linked rows carry user2 and a NULL code. The partial unique
// index on linking_code enforces code uniqueness among pending rows.
type Couple struct {
	ID          string         `db:"id"`
	User1ID     string         `db:"user1_id"`
	User2ID     sql.NullString `db:"user2_id"`
	LinkingCode sql.NullString `db:"linking_code"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}
