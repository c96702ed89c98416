package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ScheduleDraft stores the latest payload a session emitted, one row per
// session, upserted on every emission. The API is the host of the widget
// core, so draft persistence lives here rather than in the composer.
type ScheduleDraft struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SessionID    string    `gorm:"uniqueIndex;not null" json:"session_id"`
	RoleType     string    `gorm:"not null" json:"role_type"`
	ScheduleType string    `gorm:"not null" json:"schedule_type"`
	Payload      string    `gorm:"type:text" json:"payload"`
	ShiftCount   int       `gorm:"default:0" json:"shift_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"key"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table, aggregated per key per day
type APIUsage struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	KeyID           uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date            string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount    int    `gorm:"default:0" json:"request_count"`
	SessionsCreated int    `gorm:"default:0" json:"sessions_created"`
	ShiftsComposed  int    `gorm:"default:0" json:"shifts_composed"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// InitDB initializes the database connection and migrates the schema
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "composer.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto Migration
	db.AutoMigrate(&ScheduleDraft{}, &APIKey{}, &APIUsage{}, &MasterUser{})

	return db
}
