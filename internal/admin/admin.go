package admin

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/playmatatu/plinko/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrOperatorNotFound = errors.New("operator account not found")
	ErrInvalidPassword  = errors.New("invalid password")
)

// GetOperator retrieves an operator account by username
func GetOperator(db *sqlx.DB, username string) (*models.OperatorAccount, error) {
	var op models.OperatorAccount
	err := db.Get(&op, `SELECT username, display_name, password_hash, roles, created_at, updated_at FROM operator_accounts WHERE username=$1`, username)
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// HashPassword returns the bcrypt hash stored for an operator.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword checks if the provided password matches the stored hash
func VerifyPassword(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// CreateOperator creates or replaces an operator account (used for seeding)
func CreateOperator(db *sqlx.DB, username, displayName, password string, roles []string) error {
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO operator_accounts (username, display_name, password_hash, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (username) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			password_hash = EXCLUDED.password_hash,
			roles = EXCLUDED.roles,
			updated_at = NOW()
	`, username, displayName, hashed, pq.Array(roles))

	return err
}

// ValidateOperatorCredentials validates a username + password combination
func ValidateOperatorCredentials(db *sqlx.DB, username, password string) (*models.OperatorAccount, error) {
	op, err := GetOperator(db, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Printf("[ADMIN] No operator account for %s", username)
			return nil, ErrOperatorNotFound
		}
		log.Printf("[ADMIN] Database error: %v", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !VerifyPassword(op.PasswordHash, password) {
		log.Printf("[ADMIN] Password verification failed for %s", username)
		return nil, ErrInvalidPassword
	}

	log.Printf("[ADMIN] Operator %s authenticated", username)
	return op, nil
}

// LogAdminAction records an operator action in the audit log
func LogAdminAction(db *sqlx.DB, username, ip, route, action string, details map[string]interface{}, success bool) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		log.Printf("[ADMIN] Failed to marshal audit details: %v", err)
		detailsJSON = []byte("{}")
	}

	_, err = db.Exec(`
		INSERT INTO operator_audit (username, ip, route, action, details, success, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, username, ip, route, action, detailsJSON, success)

	if err != nil {
		log.Printf("[ADMIN] Failed to log admin action: %v", err)
	}

	return err
}

// GetAuditLogs retrieves recent audit entries with pagination
func GetAuditLogs(db *sqlx.DB, limit, offset int) ([]models.OperatorAudit, error) {
	var logs []models.OperatorAudit
	err := db.Select(&logs, `
		SELECT id, username, ip, route, action, details, success, created_at
		FROM operator_audit
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return logs, err
}
