package main

import (
	"log"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"accounts_backend/internal/app/router"
	identityadapters "accounts_backend/internal/feature/identity/adapters"
	identityhandler "accounts_backend/internal/feature/identity/transport/handler"
	identityusecase "accounts_backend/internal/feature/identity/usecase"
	"accounts_backend/internal/platform/cache"
	"accounts_backend/internal/platform/config"
	infradb "accounts_backend/internal/platform/db"
	jwtmw "accounts_backend/internal/platform/jwt"
	"accounts_backend/internal/platform/mail"
	infraredis "accounts_backend/internal/platform/redis"
	"accounts_backend/internal/platform/token"
)

func main() {
	// .envは開発用。存在しなくてもよい。
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// db
	db := infradb.OpenDB(cfg.DB)

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Addr == "" {
		rdb = nil
	} else if tmp, err := infraredis.NewRedisClient(cfg.Redis); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	userRepo := identityadapters.NewUserMySQL(db)

	// Redisキャッシュでラップ（プロフィール読み出しのみキャッシュされる）
	cachedUserRepo := cache.NewCachingUserRepository(rdb, 0, userRepo, "users")

	// Usecase
	jwtGen := jwtmw.NewGenerator(cfg.JWT.Secret, cfg.JWT.Expiration)
	tokens := token.NewSource()
	mailer := mail.NewClient(cfg.Mail)
	identityUC := identityusecase.NewIdentityUsecase(cachedUserRepo, jwtGen, tokens, mailer)

	// Handler
	identityH := identityhandler.NewIdentityHandler(identityUC)
	profileH := identityhandler.NewProfileHandler(identityUC)

	// ルータ生成
	router := router.NewRouter(identityH, profileH)

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.JWT.Secret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
