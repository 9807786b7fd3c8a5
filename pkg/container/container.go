package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"lending-library/internal/config"
	infraCache "lending-library/internal/infrastructure/cache"
	"lending-library/internal/infrastructure/database"
	"lending-library/pkg/cache"

	bookHandler "lending-library/internal/domains/book/handler"
	bookRepo "lending-library/internal/domains/book/repository"
	bookService "lending-library/internal/domains/book/service"
	borrowHandler "lending-library/internal/domains/borrow/handler"
	borrowRepo "lending-library/internal/domains/borrow/repository"
	borrowService "lending-library/internal/domains/borrow/service"
	memberHandler "lending-library/internal/domains/member/handler"
	memberRepo "lending-library/internal/domains/member/repository"
	memberService "lending-library/internal/domains/member/service"
)

// Container holds the application's dependency graph. Everything in it
// is a singleton built once at startup; initialization order is
// config, infrastructure, repositories, services, handlers.
type Container struct {
	Config *config.Config
	DB     *database.PostgresDB
	Cache  cache.Cache

	BookRepo   bookRepo.RepositoryInterface
	MemberRepo memberRepo.RepositoryInterface
	BorrowRepo borrowRepo.RepositoryInterface

	BookService   bookService.ServiceInterface
	MemberService memberService.ServiceInterface
	BorrowService borrowService.ServiceInterface

	BookHandler   *bookHandler.BookHandler
	MemberHandler *memberHandler.MemberHandler
	BorrowHandler *borrowHandler.BorrowHandler
}

// NewContainer builds and initializes the whole dependency graph.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	redisCache := infraCache.NewRedisClient(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)

	// Redis failure is non-critical; the services degrade to uncached
	// reads and log the misses.
	if err := redisCache.Connect(context.Background()); err != nil {
		log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
	} else {
		log.Println("✅ Redis connected")
	}

	c.Cache = redisCache

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.BookRepo = bookRepo.NewRepository(pool)
	c.MemberRepo = memberRepo.NewRepository(pool)
	c.BorrowRepo = borrowRepo.NewRepository(pool)
}

func (c *Container) initServices() {
	c.BookService = bookService.NewService(c.BookRepo, c.Cache)
	c.MemberService = memberService.NewService(c.MemberRepo)
	c.BorrowService = borrowService.NewService(
		c.BorrowRepo,
		c.MemberRepo,
		c.BookRepo,
		c.Cache,
	)
}

func (c *Container) initHandlers() {
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.MemberHandler = memberHandler.NewMemberHandler(c.MemberService)
	c.BorrowHandler = borrowHandler.NewBorrowHandler(c.BorrowService)
}

// Cleanup releases held resources. Called during graceful shutdown.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
		log.Println("✅ Database connections closed")
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisClient); ok {
			if err := rc.Close(); err != nil {
				log.Printf("⚠️  Failed to close Redis: %v", err)
			} else {
				log.Println("✅ Redis connections closed")
			}
		}
	}
}
