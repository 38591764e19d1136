package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"gigfeed/internal/apperror"
	"gigfeed/internal/models"
	"gigfeed/internal/store"
	"gigfeed/internal/ticketmaster"
)

type fakeStore struct {
	bands    map[int64]*models.Band
	concerts []*models.Concert
	links    map[[2]int64]bool
	nextID   int64

	// loseCreateRace makes the next CreateConcert behave as if a
	// concurrent writer inserted the same row first.
	loseCreateRace bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bands:  make(map[int64]*models.Band),
		links:  make(map[[2]int64]bool),
		nextID: 100,
	}
}

func (f *fakeStore) addBand(id int64, name string, externalID *string) {
	f.bands[id] = &models.Band{ID: id, Name: name, ExternalID: externalID}
}

func (f *fakeStore) BandByID(_ context.Context, id int64) (*models.Band, error) {
	band, ok := f.bands[id]
	if !ok {
		return nil, store.ErrBandNotFound
	}
	return band, nil
}

func (f *fakeStore) FindConcertByKeys(_ context.Context, externalID, venue string, date *time.Time) (*models.Concert, error) {
	for _, c := range f.concerts {
		if c.ExternalID == externalID {
			return c, nil
		}
		if c.Venue == venue && sameDate(c.Date, date) {
			return c, nil
		}
	}
	return nil, store.ErrConcertNotFound
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func (f *fakeStore) CreateConcert(_ context.Context, c *models.Concert) (*models.Concert, error) {
	for _, existing := range f.concerts {
		if existing.ExternalID == c.ExternalID {
			return nil, store.ErrConcertExists
		}
		if existing.Venue == c.Venue && sameDate(existing.Date, c.Date) {
			return nil, store.ErrConcertExists
		}
	}
	if f.loseCreateRace {
		f.loseCreateRace = false
		winner := *c
		winner.ID = f.nextID
		winner.Name = "winner " + c.Name
		f.nextID++
		f.concerts = append(f.concerts, &winner)
		return nil, store.ErrConcertExists
	}
	c.ID = f.nextID
	f.nextID++
	f.concerts = append(f.concerts, c)
	return c, nil
}

func (f *fakeStore) LinkBandConcert(_ context.Context, bandID, concertID int64) (bool, error) {
	key := [2]int64{bandID, concertID}
	if f.links[key] {
		return false, nil
	}
	f.links[key] = true
	return true, nil
}

type fakeEvents struct {
	events       []ticketmaster.Event
	err          error
	attractionID string
	keyword      string
}

func (f *fakeEvents) SearchEvents(_ context.Context, attractionID string) ([]ticketmaster.Event, error) {
	f.attractionID = attractionID
	return f.events, f.err
}

func (f *fakeEvents) SearchEventsByKeyword(_ context.Context, keyword string) ([]ticketmaster.Event, error) {
	f.keyword = keyword
	return f.events, f.err
}

func syncEvent(id, venue, dateTime string) ticketmaster.Event {
	ev := ticketmaster.Event{ID: id, Name: "Show " + id}
	ev.Dates.Start.DateTime = dateTime
	ev.Embedded.Venues = []ticketmaster.Venue{{Name: venue}}
	return ev
}

func TestSyncBandCreatesAndLinks(t *testing.T) {
	st := newFakeStore()
	externalID := "K8vZ917"
	st.addBand(1, "Dream Theater", &externalID)
	src := &fakeEvents{events: []ticketmaster.Event{
		syncEvent("e1", "Astra", "2024-06-01T19:00:00Z"),
		syncEvent("e2", "Columbiahalle", "2024-06-03T19:00:00Z"),
	}}

	svc := New(st, src, zerolog.Nop())
	result, err := svc.SyncBand(context.Background(), 1)
	if err != nil {
		t.Fatalf("SyncBand: %v", err)
	}

	if result.Processed != 2 || result.NewConcerts != 2 || result.LinkedExisting != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if src.attractionID != externalID {
		t.Fatalf("expected search by attraction id, got %q", src.attractionID)
	}
	if len(st.concerts) != 2 || len(st.links) != 2 {
		t.Fatalf("expected 2 concerts and 2 links, got %d / %d", len(st.concerts), len(st.links))
	}
}

func TestSyncBandIsIdempotent(t *testing.T) {
	st := newFakeStore()
	st.addBand(1, "Dream Theater", nil)
	src := &fakeEvents{events: []ticketmaster.Event{
		syncEvent("e1", "Astra", "2024-06-01T19:00:00Z"),
	}}

	svc := New(st, src, zerolog.Nop())
	if _, err := svc.SyncBand(context.Background(), 1); err != nil {
		t.Fatalf("first SyncBand: %v", err)
	}
	result, err := svc.SyncBand(context.Background(), 1)
	if err != nil {
		t.Fatalf("second SyncBand: %v", err)
	}

	if result.NewConcerts != 0 || result.LinkedExisting != 1 {
		t.Fatalf("unexpected second run result: %+v", result)
	}
	if len(st.concerts) != 1 || len(st.links) != 1 {
		t.Fatalf("expected 1 concert and 1 link after resync, got %d / %d", len(st.concerts), len(st.links))
	}
	if src.keyword != "Dream Theater" {
		t.Fatalf("expected keyword search for band without external id, got %q", src.keyword)
	}
}

func TestSyncBandLinksExistingWithoutOverwriting(t *testing.T) {
	st := newFakeStore()
	st.addBand(1, "Opeth", nil)
	date := time.Date(2024, 6, 1, 19, 0, 0, 0, time.UTC)
	st.concerts = append(st.concerts, &models.Concert{
		ID: 50, Name: "Original Name", Venue: "Astra", Date: &date, ExternalID: "e1",
	})
	src := &fakeEvents{events: []ticketmaster.Event{
		syncEvent("e1", "Astra", "2024-06-01T19:00:00Z"),
	}}

	svc := New(st, src, zerolog.Nop())
	result, err := svc.SyncBand(context.Background(), 1)
	if err != nil {
		t.Fatalf("SyncBand: %v", err)
	}

	if result.NewConcerts != 0 || result.LinkedExisting != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if st.concerts[0].Name != "Original Name" {
		t.Fatalf("stored concert was modified: %q", st.concerts[0].Name)
	}
	if !st.links[[2]int64{1, 50}] {
		t.Fatal("expected band linked to existing concert")
	}
}

func TestSyncBandRecoversFromInsertRace(t *testing.T) {
	st := newFakeStore()
	st.addBand(1, "Opeth", nil)
	st.loseCreateRace = true
	src := &fakeEvents{events: []ticketmaster.Event{
		syncEvent("e1", "Astra", "2024-06-01T19:00:00Z"),
	}}

	svc := New(st, src, zerolog.Nop())
	result, err := svc.SyncBand(context.Background(), 1)
	if err != nil {
		t.Fatalf("SyncBand: %v", err)
	}

	// The insert lost the race; the band links to the row that won.
	if result.NewConcerts != 0 || result.LinkedExisting != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(st.concerts) != 1 {
		t.Fatalf("expected a single concert row, got %d", len(st.concerts))
	}
	if !st.links[[2]int64{1, st.concerts[0].ID}] {
		t.Fatal("expected band linked to winning concert")
	}
}

func TestSyncBandRateLimited(t *testing.T) {
	st := newFakeStore()
	st.addBand(1, "Opeth", nil)
	src := &fakeEvents{err: ticketmaster.ErrRateLimited}

	svc := New(st, src, zerolog.Nop())
	_, err := svc.SyncBand(context.Background(), 1)
	if !errors.Is(err, apperror.ErrRateLimited) {
		t.Fatalf("expected rate limited error, got %v", err)
	}
}

func TestSyncBandUnknownBand(t *testing.T) {
	svc := New(newFakeStore(), &fakeEvents{}, zerolog.Nop())
	_, err := svc.SyncBand(context.Background(), 7)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestSyncBandWithoutEventSource(t *testing.T) {
	svc := New(newFakeStore(), nil, zerolog.Nop())
	_, err := svc.SyncBand(context.Background(), 1)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
