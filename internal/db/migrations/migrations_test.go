package migrations

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
)

type fakeSchema struct {
	version    uint
	dirty      bool
	versionErr error
	upErr      error

	upCalls int
	forced  []int
}

func (f *fakeSchema) Version() (uint, bool, error) { return f.version, f.dirty, f.versionErr }

func (f *fakeSchema) Up() error {
	f.upCalls++
	return f.upErr
}

func (f *fakeSchema) Steps(int) error { return nil }

func (f *fakeSchema) Force(version int) error {
	f.forced = append(f.forced, version)
	f.dirty = false
	return nil
}

func (f *fakeSchema) Close() (error, error) { return nil, nil }

func newTestMigrator(s schema) *Migrator {
	return &Migrator{migrate: s, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestMigrator_Up(t *testing.T) {
	t.Run("dirty schema is refused without forcing", func(t *testing.T) {
		fake := &fakeSchema{version: 2, dirty: true}

		err := newTestMigrator(fake).Up()
		if !errors.Is(err, ErrDirty) {
			t.Fatalf("Up() error = %v, want ErrDirty", err)
		}
		if !strings.Contains(err.Error(), "migration 2") || !strings.Contains(err.Error(), "migrate force 1") {
			t.Errorf("error %q should name the dirty version and the force command", err)
		}
		if len(fake.forced) != 0 {
			t.Errorf("Force called with %v, want no calls", fake.forced)
		}
		if fake.upCalls != 0 {
			t.Errorf("Up called %d times, want 0", fake.upCalls)
		}
	})

	t.Run("fresh database applies everything", func(t *testing.T) {
		fake := &fakeSchema{versionErr: migrate.ErrNilVersion}

		if err := newTestMigrator(fake).Up(); err != nil {
			t.Fatalf("Up() unexpected error: %v", err)
		}
		if fake.upCalls != 1 {
			t.Errorf("Up called %d times, want 1", fake.upCalls)
		}
	})

	t.Run("no change is success", func(t *testing.T) {
		fake := &fakeSchema{version: 3, upErr: migrate.ErrNoChange}

		if err := newTestMigrator(fake).Up(); err != nil {
			t.Errorf("Up() error = %v, want nil", err)
		}
	})

	t.Run("migration failure is returned", func(t *testing.T) {
		boom := errors.New("relation \"urls\" does not exist")
		fake := &fakeSchema{version: 2, upErr: boom}

		if err := newTestMigrator(fake).Up(); !errors.Is(err, boom) {
			t.Errorf("Up() error = %v, want %v", err, boom)
		}
	})
}

func TestMigrator_ForceThenUp(t *testing.T) {
	fake := &fakeSchema{version: 2, dirty: true}
	m := newTestMigrator(fake)

	if err := m.Force(1); err != nil {
		t.Fatalf("Force() unexpected error: %v", err)
	}
	if len(fake.forced) != 1 || fake.forced[0] != 1 {
		t.Errorf("forced = %v, want [1]", fake.forced)
	}

	if err := m.Up(); err != nil {
		t.Fatalf("Up() after Force unexpected error: %v", err)
	}
	if fake.upCalls != 1 {
		t.Errorf("Up called %d times, want 1", fake.upCalls)
	}
}
