package database

import (
	"bytes"
	"io"
	"io/fs"
	"log"
	"os"
	"path"
	"time"

	"house-panel/config"
	"house-panel/database/model"
	"house-panel/util/crypto"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

const (
	defaultUsername = "admin"
	defaultPassword = "admin"
)

var defaultOffices = []model.Office{
	{Name: "President", Description: "Runs house meetings and represents the house"},
	{Name: "Treasurer", Description: "Keeps the house budget"},
	{Name: "Rush Chair", Description: "Runs recruitment"},
	{Name: "Room Czar", Description: "Runs the annual room hassle"},
}

func initModels() error {
	models := []any{
		&model.Member{},
		&model.User{},
		&model.Office{},
		&model.OfficeTerm{},
		&model.OfficePermission{},
		&model.UserPermission{},
		&model.Room{},
		&model.RoomRank{},
		&model.RoomAssignment{},
		&model.BudgetEntry{},
		&model.Setting{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			log.Printf("Error auto migrating model: %v", err)
			return err
		}
	}
	return nil
}

func initOffices() error {
	empty, err := isTableEmpty("offices")
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}
	for _, office := range defaultOffices {
		office := office
		if err := db.Create(&office).Error; err != nil {
			return err
		}
	}
	return nil
}

// initUser seeds the first administrator so a fresh install is reachable.
// The default password is hashed like any other and flagged for change by
// the admin permission holder.
func initUser() error {
	empty, err := isTableEmpty("users")
	if err != nil {
		log.Printf("Error checking if users table is empty: %v", err)
		return err
	}
	if !empty {
		return nil
	}

	member := &model.Member{
		Uuid:     uuid.NewString(),
		Name:     "House Admin",
		Email:    "admin@localhost",
		Status:   model.StatusActive,
		JoinedAt: time.Now(),
	}
	if err := db.Create(member).Error; err != nil {
		return err
	}

	user := &model.User{
		MemberId:     member.Id,
		Username:     defaultUsername,
		PasswordHash: crypto.NewHash(defaultPassword).String(),
	}
	if err := db.Create(user).Error; err != nil {
		return err
	}

	grant := &model.UserPermission{
		UserId:     user.Id,
		Permission: model.PermAdmin,
	}
	return db.Create(grant).Error
}

func isTableEmpty(tableName string) (bool, error) {
	var count int64
	err := db.Table(tableName).Count(&count).Error
	return count == 0, err
}

func InitDB(dbPath string) error {
	dir := path.Dir(dbPath)
	err := os.MkdirAll(dir, fs.ModePerm)
	if err != nil {
		return err
	}

	var gormLogger logger.Interface

	if config.IsDebug() {
		gormLogger = logger.Default
	} else {
		gormLogger = logger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}

	dsn := dbPath + "?cache=shared&_journal_mode=WAL&_synchronous=NORMAL"
	db, err = gorm.Open(sqlite.Open(dsn), c)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	_, err = sqlDB.Exec("PRAGMA cache_size = -64000;")
	if err != nil {
		return err
	}
	_, err = sqlDB.Exec("PRAGMA temp_store = MEMORY;")
	if err != nil {
		return err
	}
	_, err = sqlDB.Exec("PRAGMA foreign_keys = ON;")
	if err != nil {
		return err
	}

	if err := initModels(); err != nil {
		return err
	}
	if err := initOffices(); err != nil {
		return err
	}
	if err := initUser(); err != nil {
		return err
	}

	return nil
}

func CloseDB() error {
	if db != nil {
		if err := Checkpoint(); err != nil {
			log.Printf("error executing checkpoint: %v", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

func GetDB() *gorm.DB {
	return db
}

func IsNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound
}

func IsSQLiteDB(file io.ReaderAt) (bool, error) {
	signature := []byte("SQLite format 3\x00")
	buf := make([]byte, len(signature))
	_, err := file.ReadAt(buf, 0)
	if err != nil {
		return false, err
	}
	return bytes.Equal(buf, signature), nil
}

func Checkpoint() error {
	return db.Exec("PRAGMA wal_checkpoint;").Error
}
