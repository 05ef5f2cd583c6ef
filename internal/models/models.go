package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Round is one ball from drop to settlement, recorded when it leaves the table
type Round struct {
	ID           int           `db:"id" json:"id"`
	SessionID    string        `db:"session_id" json:"session_id"`
	BallID       int64         `db:"ball_id" json:"ball_id"`
	Outcome      string        `db:"outcome" json:"outcome"`
	ZoneIndex    sql.NullInt64 `db:"zone_index" json:"zone_index,omitempty"`
	Multiplier   float64       `db:"multiplier" json:"multiplier"`
	Cost         float64       `db:"cost" json:"cost"`
	Payout       float64       `db:"payout" json:"payout"`
	BalanceAfter float64       `db:"balance_after" json:"balance_after"`
	Ticks        int           `db:"ticks" json:"ticks"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
}

// TableSession is one balance lifetime on the table, from start to reset
type TableSession struct {
	ID             string          `db:"id" json:"id"`
	InitialBalance float64         `db:"initial_balance" json:"initial_balance"`
	FinalBalance   sql.NullFloat64 `db:"final_balance" json:"final_balance,omitempty"`
	Seed           int64           `db:"seed" json:"seed"`
	StartedAt      time.Time       `db:"started_at" json:"started_at"`
	EndedAt        sql.NullTime    `db:"ended_at" json:"ended_at,omitempty"`
}

// OperatorAccount is a table operator allowed to use the admin API
type OperatorAccount struct {
	Username     string         `db:"username" json:"username"`
	DisplayName  string         `db:"display_name" json:"display_name"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Roles        pq.StringArray `db:"roles" json:"roles"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// OperatorAudit is one entry of the admin audit log
type OperatorAudit struct {
	ID        int             `db:"id" json:"id"`
	Username  string          `db:"username" json:"username"`
	IP        string          `db:"ip" json:"ip"`
	Route     string          `db:"route" json:"route"`
	Action    string          `db:"action" json:"action"`
	Details   json.RawMessage `db:"details" json:"details"`
	Success   bool            `db:"success" json:"success"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// RuntimeConfig is an operator override for one table constant
type RuntimeConfig struct {
	Key         string         `db:"key" json:"key"`
	Value       string         `db:"value" json:"value"`
	ValueType   string         `db:"value_type" json:"value_type"`
	Description sql.NullString `db:"description" json:"description,omitempty"`
	UpdatedBy   sql.NullString `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}
