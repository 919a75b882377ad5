package resources

import (
	"context"
	"sync"
	"time"

	"github.com/readmeio/render-exporter/pkg/render"
)

// Snapshot is one complete, internally consistent view of the monitored
// resources at a point in time. It is replaced wholesale on refresh and never
// mutated in place.
type Snapshot struct {
	Services    []render.Resource `json:"services"`
	KeyValues   []render.Resource `json:"keyValues"`
	Databases   []render.Resource `json:"databases"`
	RefreshedAt time.Time         `json:"refreshedAt"`
}

// All returns every resource in the snapshot as one list, services first.
func (s *Snapshot) All() []render.Resource {
	all := make([]render.Resource, 0, len(s.Services)+len(s.KeyValues)+len(s.Databases))
	all = append(all, s.Services...)
	all = append(all, s.KeyValues...)
	all = append(all, s.Databases...)
	return all
}

// FetchFunc produces a fresh snapshot from the upstream API.
type FetchFunc func(ctx context.Context) (*Snapshot, error)

// listAPI is the slice of the Render client the fetcher needs.
type listAPI interface {
	ListServices(ctx context.Context, nameFilter string) ([]render.Resource, error)
	ListKeyValues(ctx context.Context) ([]render.Resource, error)
	ListPostgres(ctx context.Context) ([]render.Resource, error)
}

// Fetcher fetches the three resource lists from the Render API. The lists are
// requested concurrently; any failed list fails the whole fetch, since a
// snapshot missing one kind would silently drop that kind's metrics.
type Fetcher struct {
	api        listAPI
	nameFilter string
}

// NewFetcher creates a Fetcher. nameFilter, when non-empty, restricts the
// service list to matching names; key value and Postgres lists are unfiltered.
func NewFetcher(api listAPI, nameFilter string) *Fetcher {
	return &Fetcher{api: api, nameFilter: nameFilter}
}

// Fetch retrieves a complete snapshot from the API.
func (f *Fetcher) Fetch(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	errs := make([]error, 3)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		snap.Services, errs[0] = f.api.ListServices(ctx, f.nameFilter)
	}()
	go func() {
		defer wg.Done()
		snap.KeyValues, errs[1] = f.api.ListKeyValues(ctx)
	}()
	go func() {
		defer wg.Done()
		snap.Databases, errs[2] = f.api.ListPostgres(ctx)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	snap.RefreshedAt = time.Now()
	return snap, nil
}

// Resources implements the scrape handler's resolver for cacheless
// deployments: every scrape fetches the resource lists directly.
func (f *Fetcher) Resources(ctx context.Context) ([]render.Resource, error) {
	snap, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return snap.All(), nil
}
