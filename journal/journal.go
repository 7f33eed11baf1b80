// Package journal keeps an SQLite trace of the transfers sent to the
// display controller.
package journal

import (
	"database/sql"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Record is one bus transfer
type Record struct {
	ID      uint      `gorm:"primarykey" json:"id"`
	At      time.Time `gorm:"index" json:"at"`
	Phase   string    `gorm:"size:16" json:"phase"`
	Address uint8     `json:"address"`
	Payload string    `gorm:"size:96" json:"payload"`
	Error   string    `gorm:"size:255" json:"error,omitempty"`
}

// TableName specifies the table name for GORM
func (Record) TableName() string {
	return "transfers"
}

// Failed reports whether the transfer returned an error
func (r Record) Failed() bool {
	return r.Error != ""
}

// Store wraps the GORM database instance
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the journal at path with the pure Go
// SQLite driver
func Open(path string, log *log.Logger) (*Store, error) {
	var gormLog logger.Interface
	if log != nil {
		gormLog = logger.New(
			log,
			logger.Config{
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		)
	} else {
		gormLog = logger.Default.LogMode(logger.Silent)
	}

	dialector := sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLog,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := configureSQLite(sqlDB); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}

	if log != nil {
		log.Printf("Journal initialized: %s", path)
	}
	return &Store{db: db}, nil
}

func configureSQLite(sqlDB *sql.DB) error {
	pragmaSettings := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmaSettings {
		if _, err := sqlDB.Exec(pragma); err != nil {
			return err
		}
	}
	return nil
}

// Append writes records in one transaction
func (s *Store) Append(recs ...Record) error {
	if len(recs) == 0 {
		return nil
	}
	return s.db.Create(&recs).Error
}

// Recent returns the newest n records, newest first
func (s *Store) Recent(n int) ([]Record, error) {
	var recs []Record
	err := s.db.Order("id desc").Limit(n).Find(&recs).Error
	return recs, err
}

// Failures counts failed transfers at or after since
func (s *Store) Failures(since time.Time) (int64, error) {
	var count int64
	err := s.db.Model(&Record{}).Where("error <> '' AND at >= ?", since).Count(&count).Error
	return count, err
}

// Close closes the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
