package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/polaris/pkg/document"
	"github.com/matzehuels/polaris/pkg/errors"
)

func testDoc(name string) *document.Document {
	return &document.Document{
		Elements: []document.Element{{ID: "1", Name: name, Dimension: "fe", Stage: "adopt"}},
		RadarData: document.RadarData{
			Dimensions: []document.Dimension{{ID: "fe", Name: "Frontend"}},
			Stages:     []document.Stage{{ID: "adopt", Name: "Adopt", Level: 1}},
		},
	}
}

// testStore runs the behavior every backend must share.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	rec, err := s.Create(ctx, testDoc("React"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := ValidateID(rec.ID); err != nil {
		t.Errorf("Create() id = %q, want uuid", rec.ID)
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(testDoc("React"), got.Document); diff != "" {
		t.Errorf("Get() document mismatch (-want +got):\n%s", diff)
	}

	updated, err := s.Put(ctx, rec.ID, testDoc("Vue"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if updated.Document.Elements[0].Name != "Vue" {
		t.Errorf("Put() name = %q, want Vue", updated.Document.Elements[0].Name)
	}
	if !updated.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("Put() changed CreatedAt: %v -> %v", rec.CreatedAt, updated.CreatedAt)
	}

	second, err := s.Create(ctx, testDoc("Kafka"))
	if err != nil {
		t.Fatal(err)
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != rec.ID || list[1].ID != second.ID {
		t.Errorf("List() = %v, want [%s %s]", ids(list), rec.ID, second.ID)
	}

	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, rec.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get() after delete = %v, want NOT_FOUND", err)
	}
	if err := s.Delete(ctx, rec.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Delete() twice = %v, want NOT_FOUND", err)
	}
	if _, err := s.Put(ctx, rec.ID, testDoc("x")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Put() after delete = %v, want NOT_FOUND", err)
	}

	if _, err := s.Get(ctx, "../etc/passwd"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Get(bad id) = %v, want INVALID_INPUT", err)
	}
	if _, err := s.Create(ctx, nil); !errors.Is(err, errors.ErrCodeEmptyInput) {
		t.Errorf("Create(nil) = %v, want EMPTY_INPUT", err)
	}
}

func ids(recs []*Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

// tick returns a clock advancing one second per call, so creation order
// is unambiguous.
func tick() func() time.Time {
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	s.now = tick()
	testStore(t, s)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s.now = tick()
	testStore(t, s)
}

func TestFileStoreIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o600)
	_ = os.WriteFile(filepath.Join(dir, "config.json"), []byte("{}"), 0o600)

	if _, err := s.Create(context.Background(), testDoc("React")); err != nil {
		t.Fatal(err)
	}
	list, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("List() returned %d records, want 1", len(list))
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	rec, _ := s.Create(context.Background(), testDoc("React"))
	rec.ID = "changed"

	list, _ := s.List(context.Background())
	if list[0].ID == "changed" {
		t.Error("caller mutation leaked into the store")
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("POLARIS_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("POLARIS_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, uri, WithMongoDatabase("polaris_test"), WithMongoCollection(NewID()))
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	t.Cleanup(func() {
		_ = s.coll.Drop(context.Background())
		_ = s.Close()
	})
	s.now = tick()
	testStore(t, s)
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{NewID(), false},
		{"", true},
		{"abc", true},
		{"../../x", true},
	}
	for _, tt := range tests {
		if err := ValidateID(tt.id); (err != nil) != tt.wantErr {
			t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
		}
	}
}
