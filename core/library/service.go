package library

import (
	"context"
	"strings"

	"github.com/trezcool/mentor/core"
)

type (
	Repository interface {
		CreateResource(ctx context.Context, res Resource, exec ...core.DBExecutor) (Resource, error)
		QueryResources(ctx context.Context, exec ...core.DBExecutor) ([]Resource, error)
		CreateEvent(ctx context.Context, ev Event, exec ...core.DBExecutor) (Event, error)
		QueryEvents(ctx context.Context, exec ...core.DBExecutor) ([]Event, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resources returns resources matching the filter. Course and tag matches are case-insensitive.
func (svc *Service) Resources(ctx context.Context, filter QueryFilter) ([]Resource, error) {
	all, err := svc.repo.QueryResources(ctx)
	if err != nil {
		return nil, err
	}
	course := core.CleanString(filter.CourseCode)
	tag := core.CleanString(filter.Tag)

	resources := make([]Resource, 0, len(all))
	for _, res := range all {
		if course != "" && !strings.EqualFold(res.CourseCode, course) {
			continue
		}
		if tag != "" && !hasTag(res.Tags, tag) {
			continue
		}
		resources = append(resources, res)
	}
	return resources, nil
}

// Events returns events having the given tag, or all of them when tag is empty.
func (svc *Service) Events(ctx context.Context, tag string) ([]Event, error) {
	all, err := svc.repo.QueryEvents(ctx)
	if err != nil {
		return nil, err
	}
	tag = core.CleanString(tag)
	if tag == "" {
		return all, nil
	}
	events := make([]Event, 0, len(all))
	for _, ev := range all {
		if hasTag(ev.Tags, tag) {
			events = append(events, ev)
		}
	}
	return events, nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
