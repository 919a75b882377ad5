package resources

import (
	"context"
	"errors"
	"testing"

	"github.com/readmeio/render-exporter/pkg/render"
)

// fakeListAPI implements listAPI with canned lists and per-list errors.
type fakeListAPI struct {
	services   []render.Resource
	keyValues  []render.Resource
	databases  []render.Resource
	svcErr     error
	kvErr      error
	pgErr      error
	gotFilter  string
}

func (f *fakeListAPI) ListServices(ctx context.Context, nameFilter string) ([]render.Resource, error) {
	f.gotFilter = nameFilter
	return f.services, f.svcErr
}

func (f *fakeListAPI) ListKeyValues(ctx context.Context) ([]render.Resource, error) {
	return f.keyValues, f.kvErr
}

func (f *fakeListAPI) ListPostgres(ctx context.Context) ([]render.Resource, error) {
	return f.databases, f.pgErr
}

// TestFetcher_Fetch verifies the three lists land in one snapshot with a
// refresh time set.
func TestFetcher_Fetch(t *testing.T) {
	api := &fakeListAPI{
		services:  []render.Resource{{ID: "srv-a", Name: "web", Kind: render.KindService}},
		keyValues: []render.Resource{{ID: "red-b", Name: "cache", Kind: render.KindKeyValue}},
		databases: []render.Resource{{ID: "dpg-c", Name: "db", Kind: render.KindPostgres}},
	}

	snap, err := NewFetcher(api, "web").Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Services) != 1 || len(snap.KeyValues) != 1 || len(snap.Databases) != 1 {
		t.Errorf("unexpected counts: %d/%d/%d",
			len(snap.Services), len(snap.KeyValues), len(snap.Databases))
	}
	if snap.RefreshedAt.IsZero() {
		t.Error("expected refresh time to be set")
	}
	if api.gotFilter != "web" {
		t.Errorf("expected name filter to reach the service list, got %q", api.gotFilter)
	}
}

// TestFetcher_FailsOnAnyList verifies a snapshot is all-or-nothing: one
// failed list fails the fetch.
func TestFetcher_FailsOnAnyList(t *testing.T) {
	kvErr := errors.New("key value list down")
	api := &fakeListAPI{
		services: []render.Resource{{ID: "srv-a", Kind: render.KindService}},
		kvErr:    kvErr,
	}

	if _, err := NewFetcher(api, "").Fetch(context.Background()); !errors.Is(err, kvErr) {
		t.Fatalf("expected the list error to surface, got %v", err)
	}
}

// TestSnapshot_All verifies ordering: services, key values, databases.
func TestSnapshot_All(t *testing.T) {
	snap := &Snapshot{
		Services:  []render.Resource{{ID: "srv-a"}},
		KeyValues: []render.Resource{{ID: "red-b"}},
		Databases: []render.Resource{{ID: "dpg-c"}},
	}

	all := snap.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 resources, got %d", len(all))
	}
	if all[0].ID != "srv-a" || all[1].ID != "red-b" || all[2].ID != "dpg-c" {
		t.Errorf("unexpected order: %v", all)
	}
}

// TestFetcher_Resources verifies the cacheless resolver flattens a fetch.
func TestFetcher_Resources(t *testing.T) {
	api := &fakeListAPI{
		services:  []render.Resource{{ID: "srv-a", Kind: render.KindService}},
		databases: []render.Resource{{ID: "dpg-c", Kind: render.KindPostgres}},
	}

	resources, err := NewFetcher(api, "").Resources(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resources) != 2 {
		t.Errorf("expected 2 resources, got %d", len(resources))
	}
}
