package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"viewing-scheduler-server/internal/calendar"
	"viewing-scheduler-server/internal/models"
)

type fixedDefaults struct{}

func (fixedDefaults) DefaultAgentID() string    { return "1" }
func (fixedDefaults) DefaultPropertyID() string { return "1" }

var kolkata = time.FixedZone("IST", 5*3600+1800)

func testOptions() Options {
	return Options{
		Defaults: fixedDefaults{},
		Location: kolkata,
		Now:      func() time.Time { return time.Date(2025, 1, 14, 23, 0, 0, 0, time.UTC) },
	}
}

type seededRepository interface {
	Repository
	Seeder
}

type storeFactory func(t *testing.T) seededRepository

func factories() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T) seededRepository {
			return NewMemoryStore(testOptions())
		},
		"gorm": func(t *testing.T) seededRepository {
			return newSQLiteStore(t)
		},
	}
}

func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := models.InitDB(models.DatabaseConfig{
		Driver: models.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "appointments.db"),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return NewGormStore(db, testOptions())
}

func forEachStore(t *testing.T, fn func(t *testing.T, s seededRepository)) {
	for name, factory := range factories() {
		t.Run(name, func(t *testing.T) {
			fn(t, factory(t))
		})
	}
}

func strPtr(s string) *string { return &s }

func TestCreateAppliesDefaults(t *testing.T) {
	forEachStore(t, func(t *testing.T, s seededRepository) {
		ctx := context.Background()
		a, err := s.Create(ctx, models.AppointmentPatch{ClientName: strPtr("Meera Joshi")})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if a.ID == "" {
			t.Fatal("expected an id")
		}
		if a.Title != models.DefaultTitle || a.Status != models.StatusScheduled || a.Duration != models.DefaultDuration {
			t.Fatalf("defaults not applied: %+v", a)
		}
		if a.AgentID != "1" || a.PropertyID != "1" {
			t.Fatalf("expected first agent and property, got %q %q", a.AgentID, a.PropertyID)
		}
		// 23:00 UTC on the 14th is already the 15th in the display zone.
		if a.Date != "2025-01-15" {
			t.Fatalf("expected today's local date, got %q", a.Date)
		}
		if a.ClientName != "Meera Joshi" {
			t.Fatalf("client name lost: %q", a.ClientName)
		}
	})
}

func TestCreateNormalizesTimestampDate(t *testing.T) {
	forEachStore(t, func(t *testing.T, s seededRepository) {
		a, err := s.Create(context.Background(), models.AppointmentPatch{Date: strPtr("2025-01-15T20:00:00Z")})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if a.Date != "2025-01-16" {
			t.Fatalf("expected local date 2025-01-16, got %q", a.Date)
		}
	})
}

func TestCreateRejectsBadInput(t *testing.T) {
	forEachStore(t, func(t *testing.T, s seededRepository) {
		ctx := context.Background()
		if _, err := s.Create(ctx, models.AppointmentPatch{Date: strPtr("15/01/2025")}); !errors.Is(err, calendar.ErrInvalidDate) {
			t.Fatalf("expected ErrInvalidDate, got %v", err)
		}
		bad := models.AppointmentStatus("pending")
		if _, err := s.Create(ctx, models.AppointmentPatch{Status: &bad}); !errors.Is(err, models.ErrInvalidStatus) {
			t.Fatalf("expected ErrInvalidStatus, got %v", err)
		}
		list, _ := s.List(ctx)
		if len(list) != 0 {
			t.Fatalf("rejected creates must not be stored, got %d", len(list))
		}
	})
}

func TestCreateAppendsWithUniqueIDs(t *testing.T) {
	forEachStore(t, func(t *testing.T, s seededRepository) {
		ctx := context.Background()
		seen := map[string]bool{}
		for _, name := range []string{"a", "b", "c", "d"} {
			a, err := s.Create(ctx, models.AppointmentPatch{ClientName: strPtr(name)})
			if err != nil {
				t.Fatalf("create %s: %v", name, err)
			}
			if seen[a.ID] {
				t.Fatalf("duplicate id %s", a.ID)
			}
			seen[a.ID] = true
		}

		list, err := s.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 4 {
			t.Fatalf("expected 4 appointments, got %d", len(list))
		}
		for i, want := range []string{"a", "b", "c", "d"} {
			if list[i].ClientName != want {
				t.Fatalf("position %d: expected %s, got %s", i, want, list[i].ClientName)
			}
		}
	})
}

func TestUpdateMergesFields(t *testing.T) {
	forEachStore(t, func(t *testing.T, s seededRepository) {
		ctx := context.Background()
		if _, err := s.Seed(ctx, models.SeedAppointments()); err != nil {
			t.Fatalf("seed: %v", err)
		}

		updated, err := s.Update(ctx, "1", models.AppointmentPatch{Date: strPtr("2025-01-20")})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.ID != "1" || updated.Date != "2025-01-20" {
			t.Fatalf("unexpected update result %+v", updated)
		}
		if updated.Time != "10:00" || updated.ClientName != "Alpesh Patel" || updated.Duration != 60 {
			t.Fatalf("untouched fields changed: %+v", updated)
		}

		got, err := s.Get(ctx, "1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Date != "2025-01-20" {
			t.Fatalf("update not persisted: %+v", got)
		}

		list, _ := s.List(ctx)
		if len(list) != 3 || list[0].ID != "1" {
			t.Fatalf("update must keep position, got %+v", list)
		}
	})
}

func TestUnknownIDReturnsNotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, s seededRepository) {
		ctx := context.Background()
		if _, err := s.Seed(ctx, models.SeedAppointments()); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("get: expected ErrNotFound, got %v", err)
		}
		if _, err := s.Update(ctx, "missing", models.AppointmentPatch{Title: strPtr("x")}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("update: expected ErrNotFound, got %v", err)
		}
		if err := s.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("delete: expected ErrNotFound, got %v", err)
		}
		list, _ := s.List(ctx)
		if len(list) != 3 {
			t.Fatalf("store changed by unknown id: %d", len(list))
		}
	})
}

func TestDeleteRemovesOnlyTarget(t *testing.T) {
	forEachStore(t, func(t *testing.T, s seededRepository) {
		ctx := context.Background()
		if _, err := s.Seed(ctx, models.SeedAppointments()); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if err := s.Delete(ctx, "2"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		list, _ := s.List(ctx)
		if len(list) != 2 || list[0].ID != "1" || list[1].ID != "3" {
			t.Fatalf("unexpected list after delete: %+v", list)
		}

		a, err := s.Create(ctx, models.AppointmentPatch{ClientName: strPtr("new")})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		list, _ = s.List(ctx)
		if list[len(list)-1].ID != a.ID {
			t.Fatalf("new appointment should be last, got %+v", list)
		}
	})
}

func TestSeedOnlyIntoEmptyStore(t *testing.T) {
	forEachStore(t, func(t *testing.T, s seededRepository) {
		ctx := context.Background()
		n, err := s.Seed(ctx, models.SeedAppointments())
		if err != nil || n != 3 {
			t.Fatalf("first seed: %d, %v", n, err)
		}
		n, err = s.Seed(ctx, models.SeedAppointments())
		if err != nil || n != 0 {
			t.Fatalf("second seed: %d, %v", n, err)
		}
		list, _ := s.List(ctx)
		if len(list) != 3 {
			t.Fatalf("expected 3 appointments, got %d", len(list))
		}
	})
}

func TestConcurrentCreatesAllSucceed(t *testing.T) {
	forEachStore(t, func(t *testing.T, s seededRepository) {
		ctx := context.Background()
		const n = 20

		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := s.Create(ctx, models.AppointmentPatch{ClientName: strPtr("Walk-in")}); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Errorf("create: %v", err)
		}

		list, err := s.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != n {
			t.Fatalf("expected %d appointments, got %d", n, len(list))
		}
		for i := 1; i < len(list); i++ {
			if list[i].Seq <= list[i-1].Seq {
				t.Fatalf("seq not strictly increasing at %d: %d after %d", i, list[i].Seq, list[i-1].Seq)
			}
		}
	})
}

func TestGormCreateRetriesTakenSeq(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	first, err := s.Create(ctx, models.AppointmentPatch{ClientName: strPtr("Alpesh Patel")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The first read returns a seq another writer already committed.
	calls := 0
	s.nextSeq = func(tx *gorm.DB) (int64, error) {
		calls++
		if calls == 1 {
			return first.Seq, nil
		}
		return nextSeq(tx)
	}

	second, err := s.Create(ctx, models.AppointmentPatch{ClientName: strPtr("Pravin Desai")})
	if err != nil {
		t.Fatalf("create after seq conflict: %v", err)
	}
	if calls != 2 || second.Seq != first.Seq+1 {
		t.Fatalf("expected one retry to seq %d, got calls=%d seq=%d", first.Seq+1, calls, second.Seq)
	}

	list, _ := s.List(ctx)
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("unexpected order %+v", list)
	}
}

func TestGormSeqIsUnique(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	a, err := s.Create(ctx, models.AppointmentPatch{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := models.Appointment{Title: "Duplicate", Date: a.Date, Time: a.Time, Seq: a.Seq, Status: models.StatusScheduled}
	if err := s.DB.WithContext(ctx).Create(&dup).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}
}
