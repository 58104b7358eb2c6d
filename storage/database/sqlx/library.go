package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mentor/core"
	"github.com/trezcool/mentor/core/library"
)

type (
	resourceRow struct {
		ID          string      `db:"id"`
		Title       string      `db:"title"`
		Type        string      `db:"type"`
		URL         null.String `db:"url"`
		CourseCode  null.String `db:"course_code"`
		Tags        null.String `db:"tags"`
		Description null.String `db:"description"`
	}

	eventRow struct {
		ID             string      `db:"id"`
		Title          string      `db:"title"`
		Date           null.String `db:"date"`
		Category       null.String `db:"category"`
		Location       null.String `db:"location"`
		Description    null.String `db:"description"`
		RecommendedFor null.String `db:"recommended_for"`
		Tags           null.String `db:"tags"`
	}
)

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}

func bindResource(res library.Resource) resourceRow {
	return resourceRow{
		ID:          res.ID,
		Title:       res.Title,
		Type:        res.Type,
		URL:         nullString(res.URL),
		CourseCode:  nullString(res.CourseCode),
		Tags:        nullString(core.JoinTags(res.Tags)),
		Description: nullString(res.Description),
	}
}

func (row resourceRow) unbind() library.Resource {
	return library.Resource{
		ID:          row.ID,
		Title:       row.Title,
		Type:        row.Type,
		URL:         row.URL.String,
		CourseCode:  row.CourseCode.String,
		Tags:        core.SplitTags(row.Tags.String),
		Description: row.Description.String,
	}
}

func bindEvent(ev library.Event) eventRow {
	return eventRow{
		ID:             ev.ID,
		Title:          ev.Title,
		Date:           nullString(ev.Date),
		Category:       nullString(ev.Category),
		Location:       nullString(ev.Location),
		Description:    nullString(ev.Description),
		RecommendedFor: nullString(ev.RecommendedFor),
		Tags:           nullString(core.JoinTags(ev.Tags)),
	}
}

func (row eventRow) unbind() library.Event {
	return library.Event{
		ID:             row.ID,
		Title:          row.Title,
		Date:           row.Date.String,
		Category:       row.Category.String,
		Location:       row.Location.String,
		Description:    row.Description.String,
		RecommendedFor: row.RecommendedFor.String,
		Tags:           core.SplitTags(row.Tags.String),
	}
}

type libraryRepository struct {
	exec core.DBExecutor
}

var _ library.Repository = (*libraryRepository)(nil) // interface compliance check

func NewLibraryRepository(exec core.DBExecutor) *libraryRepository {
	return &libraryRepository{exec: exec}
}

func (repo libraryRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

func (repo libraryRepository) CreateResource(ctx context.Context, res library.Resource, exec ...core.DBExecutor) (library.Resource, error) {
	res.ID = uuid.New().String()
	row := bindResource(res)
	q := `INSERT INTO library_resource (id, title, type, url, course_code, tags, description)
		VALUES (:id, :title, :type, :url, :course_code, :tags, :description)`
	if _, err := repo.getExec(exec).NamedExecContext(ctx, q, row); err != nil {
		return library.Resource{}, errors.Wrap(err, "inserting library resource")
	}
	return row.unbind(), nil
}

func (repo libraryRepository) QueryResources(ctx context.Context, exec ...core.DBExecutor) ([]library.Resource, error) {
	var rows []resourceRow
	q := `SELECT id, title, type, url, course_code, tags, description FROM library_resource ORDER BY seq`
	if err := repo.getExec(exec).SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying library resources")
	}
	resources := make([]library.Resource, 0, len(rows))
	for _, row := range rows {
		resources = append(resources, row.unbind())
	}
	return resources, nil
}

func (repo libraryRepository) CreateEvent(ctx context.Context, ev library.Event, exec ...core.DBExecutor) (library.Event, error) {
	ev.ID = uuid.New().String()
	row := bindEvent(ev)
	q := `INSERT INTO event (id, title, date, category, location, description, recommended_for, tags)
		VALUES (:id, :title, :date, :category, :location, :description, :recommended_for, :tags)`
	if _, err := repo.getExec(exec).NamedExecContext(ctx, q, row); err != nil {
		return library.Event{}, errors.Wrap(err, "inserting event")
	}
	return row.unbind(), nil
}

func (repo libraryRepository) QueryEvents(ctx context.Context, exec ...core.DBExecutor) ([]library.Event, error) {
	var rows []eventRow
	q := `SELECT id, title, date, category, location, description, recommended_for, tags FROM event ORDER BY seq`
	if err := repo.getExec(exec).SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	events := make([]library.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.unbind())
	}
	return events, nil
}
