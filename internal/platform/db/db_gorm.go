package db

import (
	"fmt"
	"log"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"accounts_backend/internal/feature/identity/domain/entity"
	"accounts_backend/internal/platform/config"
)

// connectTimeout is how long OpenDB keeps retrying before giving up.
const connectTimeout = 60 * time.Second

// BuildDSN はデータベース設定からMySQLのDSN文字列を生成します。
// InstanceConnectionNameが設定されている場合はCloud SQLのUnixソケット形式を優先します。
func BuildDSN(cfg config.DBConfig) string {
	if cfg.Instance != "" {
		return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User, cfg.Pass, cfg.Instance, cfg.Name)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.User, cfg.Pass, cfg.Host, cfg.Port, cfg.Name)
}

// ConnectWithRetry は接続が確立するまで3秒間隔でリトライします。
// openerを差し替えることでテストから接続処理を注入できます。
func ConnectWithRetry(dsn string, timeout time.Duration, opener func(string) (*gorm.DB, error)) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}
}

// OpenDB connects to MySQL with a retry loop and optionally runs the
// schema migration. Startup failures are fatal.
func OpenDB(cfg config.DBConfig) *gorm.DB {
	dsn := BuildDSN(cfg)

	db, err := ConnectWithRetry(dsn, connectTimeout, func(dsn string) (*gorm.DB, error) {
		return gorm.Open(gmysql.Open(dsn), &gorm.Config{})
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	if cfg.RunMigrations {
		// マイグレーション（Userのみ）
		if err := db.AutoMigrate(&entity.User{}); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
