package services

import (
	"github.com/ghuser/catalog/pkg/app"
	"github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/services/catalog/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the catalog
// bounded context. It wires domain services with their infrastructure.
type Services struct {
	Author   *AuthorService
	Category *CategoryService
	Book     *BookService
}

// New wires all catalog application services with infrastructure from the
// Application container.
func New(a *app.Application) *Services {
	authors := postgres.NewAuthorRepository(a.Db)
	categories := postgres.NewCategoryRepository(a.Db)
	books := postgres.NewBookRepository(a.Db, a.EventBus)
	gateway := postgres.NewEntityGateway(authors, categories, books)

	var bookCache BookCache
	if a.Redis != nil {
		bookCache = cache.NewBookCache(a.Redis, a.Config.BookCacheTTL)
	}

	return &Services{
		Author:   NewAuthorService(authors, a.Logger),
		Category: NewCategoryService(categories, a.Logger),
		Book:     NewBookService(books, gateway, bookCache, a.Logger),
	}
}
