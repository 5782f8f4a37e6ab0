package container

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"library-backend/internal/config"
	authorhandler "library-backend/internal/domains/author/handler"
	authorrepo "library-backend/internal/domains/author/repository"
	authorservice "library-backend/internal/domains/author/service"
	bookhandler "library-backend/internal/domains/book/handler"
	bookrepo "library-backend/internal/domains/book/repository"
	bookservice "library-backend/internal/domains/book/service"
	loanhandler "library-backend/internal/domains/loan/handler"
	loanjob "library-backend/internal/domains/loan/job"
	loanrepo "library-backend/internal/domains/loan/repository"
	loanservice "library-backend/internal/domains/loan/service"
	infracache "library-backend/internal/infrastructure/cache"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/infrastructure/metadata"
	"library-backend/internal/infrastructure/storage"
	"library-backend/pkg/cache"
)

// Container wires configuration, infrastructure, repositories, services and
// handlers in dependency order.
type Container struct {
	Config *config.Config

	DB      *database.PostgresDB
	Cache   cache.Cache
	Storage *storage.MinIOStorage

	AuthorService authorservice.AuthorService
	BookService   bookservice.BookService
	LoanService   loanservice.LoanService

	AuthorHandler *authorhandler.AuthorHandler
	BookHandler   *bookhandler.BookHandler
	LoanHandler   *loanhandler.LoanHandler

	OverdueJob *loanjob.OverdueJob
}

func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	c := &Container{Config: cfg}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.initDomains()

	log.Info().Str("env", cfg.App.Environment).Msg("container initialized")
	return c, nil
}

func (c *Container) initInfrastructure() error {
	ctx := context.Background()

	db := database.NewPostgresDB(&c.Config.Database)
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	c.DB = db

	redisCache := infracache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := redisCache.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect redis: %w", err)
	}
	c.Cache = redisCache

	minioStorage, err := storage.NewMinIOStorage(c.Config.MinIO)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}
	c.Storage = minioStorage

	return nil
}

func (c *Container) initDomains() {
	processor := storage.NewImageProcessor()
	metaClient := metadata.NewOpenLibraryClient(c.Config.Metadata)

	authorRepository := authorrepo.NewPostgresAuthorRepository(c.DB.Pool)
	c.AuthorService = authorservice.NewAuthorService(authorRepository, c.Cache, c.Storage, processor)
	c.AuthorHandler = authorhandler.NewAuthorHandler(c.AuthorService)

	bookRepository := bookrepo.NewPostgresBookRepository(c.DB.Pool)
	c.BookService = bookservice.NewBookService(bookRepository, c.Cache, c.Storage, processor, metaClient)
	c.BookHandler = bookhandler.NewBookHandler(c.BookService)

	loanRepository := loanrepo.NewPostgresLoanRepository(c.DB.Pool)
	c.LoanService = loanservice.NewLoanService(loanRepository, c.Config.Loan)
	c.LoanHandler = loanhandler.NewLoanHandler(c.LoanService)

	c.OverdueJob = loanjob.NewOverdueJob(c.LoanService)
}

// Cleanup closes infrastructure connections in reverse order.
func (c *Container) Cleanup() {
	if closer, ok := c.Cache.(interface{ Close() error }); ok && closer != nil {
		if err := closer.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close cache")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	log.Info().Msg("container cleaned up")
}
