package inmemdb

import (
	"context"

	"github.com/trezcool/mentor/core"
	"github.com/trezcool/mentor/core/library"
)

type libraryRepository struct {
	db *DB
}

var _ library.Repository = (*libraryRepository)(nil) // interface compliance check

func NewLibraryRepository(db *DB) *libraryRepository {
	return &libraryRepository{db: db}
}

func (repo *libraryRepository) CreateResource(_ context.Context, res library.Resource, _ ...core.DBExecutor) (library.Resource, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	res.ID = newID()
	repo.db.resources = append(repo.db.resources, res)
	return res, nil
}

func (repo *libraryRepository) QueryResources(_ context.Context, _ ...core.DBExecutor) ([]library.Resource, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]library.Resource(nil), repo.db.resources...), nil
}

func (repo *libraryRepository) CreateEvent(_ context.Context, ev library.Event, _ ...core.DBExecutor) (library.Event, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	ev.ID = newID()
	repo.db.events = append(repo.db.events, ev)
	return ev, nil
}

func (repo *libraryRepository) QueryEvents(_ context.Context, _ ...core.DBExecutor) ([]library.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]library.Event(nil), repo.db.events...), nil
}
