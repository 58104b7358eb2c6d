// Package shared wires the dependencies common to the api and admin apps.
package shared

import (
	"io/fs"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/trezcool/mentor/core"
	"github.com/trezcool/mentor/core/library"
	"github.com/trezcool/mentor/core/mentor"
	"github.com/trezcool/mentor/core/student"
	appfs "github.com/trezcool/mentor/fs"
	"github.com/trezcool/mentor/llm"
	"github.com/trezcool/mentor/services/retrieval"
	"github.com/trezcool/mentor/storage/database"
	"github.com/trezcool/mentor/storage/database/sqlx"
)

type Deps struct {
	Conf       *core.Config
	DB         *sqlx.DB
	Validate   *validator.Validate
	Translator ut.Translator
	LLM        *llm.Client
	Index      *retrievalsvc.Index
	StudentSvc *student.Service
	LibrarySvc *library.Service
	MentorSvc  *mentor.Service

	closers []func() error
}

// SetUpDB opens the configured database and applies the pending migrations.
func SetUpDB(conf *core.Config, logger core.Logger) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db, logger); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	return validate, translator
}

// DocsFS returns the configured documents directory, or the embedded documents.
func DocsFS(conf *core.Config) (fs.FS, error) {
	if dir := conf.Retrieval.DocsDir; dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, errors.Wrap(err, "documents directory")
		}
		return os.DirFS(dir), nil
	}
	return fs.Sub(appfs.FS, appfs.DocsDir)
}

// NewIndexStore keeps the index in redis when an address is configured, in memory otherwise.
func NewIndexStore(conf *core.Config) (retrievalsvc.Store, func() error) {
	if addr := conf.Retrieval.RedisAddr; addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		return retrievalsvc.NewRedisStore(rdb, conf.Retrieval.RedisPrefix), rdb.Close
	}
	return retrievalsvc.NewMemoryStore(), func() error { return nil }
}

// NewDeps sets up the database, the LLM client, the retrieval index and the services.
// reg may be nil, in which case the LLM metrics are not registered.
func NewDeps(conf *core.Config, logger, dbLogger core.Logger, reg prometheus.Registerer) (*Deps, error) {
	d := &Deps{Conf: conf}

	db, err := SetUpDB(conf, dbLogger)
	if err != nil {
		return nil, errors.Wrap(err, "setting up database")
	}
	d.DB = db
	d.closers = append(d.closers, db.Close)

	d.LLM, err = llm.NewClient(conf.LLM, logger, llm.WithMetrics(llm.NewMetrics(reg)))
	if err != nil {
		_ = d.Close()
		return nil, err
	}

	docs, err := DocsFS(conf)
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	store, closeStore := NewIndexStore(conf)
	d.closers = append(d.closers, closeStore)
	d.Index = retrievalsvc.NewIndex(docs, store, d.LLM, logger, retrievalsvc.Options{
		ChunkSize:    conf.Retrieval.ChunkSize,
		ChunkOverlap: conf.Retrieval.ChunkOverlap,
		Model:        conf.LLM.EmbedProvider + "/" + conf.LLM.EmbedModel,
	})

	d.Validate, d.Translator = NewValidator()

	stRepo := sqlxrepos.NewStudentRepository(db)
	d.StudentSvc = student.NewService(stRepo, d.Validate)
	d.LibrarySvc = library.NewService(sqlxrepos.NewLibraryRepository(db))
	d.MentorSvc = mentor.NewService(stRepo, d.Index, d.LLM, logger, mentor.Options{TopK: conf.Retrieval.TopK})
	return d, nil
}

// Close releases the resources in reverse order of acquisition.
func (d *Deps) Close() error {
	var firstErr error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	d.closers = nil
	return firstErr
}
