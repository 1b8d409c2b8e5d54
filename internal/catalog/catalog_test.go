package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/finohq/finofiling/internal/filing"
	"github.com/finohq/finofiling/internal/query"
)

func openCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func testFiling(t *testing.T, id, source string, overrides map[string]any) filing.Filing {
	t.Helper()
	values := map[string]any{
		"id":         id,
		"source":     source,
		"checksum":   "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		"name":       "doc-" + id,
		"created_at": time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}
	for k, v := range overrides {
		values[k] = v
	}
	f, err := filing.New(values)
	if err != nil {
		t.Fatalf("filing.New() failed: %v", err)
	}
	return f
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")

	for i := 0; i < 3; i++ {
		c, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		c.Close()
	}
}

func TestIndexGet_RoundTrip(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	f := testFiling(t, "edinet:S100:aa", "edinet", nil)
	if err := c.Index(ctx, f); err != nil {
		t.Fatalf("Index() failed: %v", err)
	}

	got, err := c.Get(ctx, "edinet:S100:aa")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got == nil {
		t.Fatal("Get() returned nil for indexed record")
	}
	if !f.Equal(got) {
		t.Errorf("round trip lost data:\n  indexed: %v\n  got:     %v", f.ToMap(), got.ToMap())
	}
}

func TestGet_AbsentID(t *testing.T) {
	c := openCatalog(t)

	got, err := c.Get(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != nil {
		t.Errorf("Get() of absent id = %v, want nil", got)
	}
}

func TestIndex_OverwritesByID(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	if err := c.Index(ctx, testFiling(t, "x:1:aa", "edinet", nil)); err != nil {
		t.Fatalf("first Index() failed: %v", err)
	}
	updated := testFiling(t, "x:1:aa", "edinet", map[string]any{"format": "xbrl"})
	if err := c.Index(ctx, updated); err != nil {
		t.Fatalf("second Index() failed: %v", err)
	}

	n, err := c.Count(ctx, nil)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("record count = %d, want 1 after overwrite", n)
	}

	got, err := c.Get(ctx, "x:1:aa")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Format() != "xbrl" {
		t.Errorf("format = %q, want overwritten value", got.Format())
	}
}

func TestIndexBatch_PartialFailureKeepsPrefix(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	batch := []filing.Filing{
		testFiling(t, "x:1:aa", "edinet", nil),
		nil, // fails
		testFiling(t, "x:3:aa", "edinet", nil),
	}

	n, err := c.IndexBatch(ctx, batch)
	if err == nil {
		t.Fatal("IndexBatch() should have failed")
	}
	if n != 1 {
		t.Errorf("committed = %d, want 1", n)
	}

	// The record before the failure is durable; the one after is not.
	if got, _ := c.Get(ctx, "x:1:aa"); got == nil {
		t.Error("record before the failure was lost")
	}
	if got, _ := c.Get(ctx, "x:3:aa"); got != nil {
		t.Error("record after the failure should not be indexed")
	}
}

func TestSearch_FilterMatchesExactSubset(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("edinet:%d:aa", i)
		if err := c.Index(ctx, testFiling(t, id, "edinet", nil)); err != nil {
			t.Fatalf("Index() failed: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		id := fmt.Sprintf("edgar:%d:aa", i)
		if err := c.Index(ctx, testFiling(t, id, "edgar", nil)); err != nil {
			t.Fatalf("Index() failed: %v", err)
		}
	}

	expr := query.F("source").Eq("edinet")
	results, err := c.Search(ctx, expr, Options{})
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for _, f := range results {
		if f.Source() != "edinet" {
			t.Errorf("result %s has source %q", f.ID(), f.Source())
		}
	}

	n, err := c.Count(ctx, expr)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if n != int64(len(results)) {
		t.Errorf("Count() = %d, want %d", n, len(results))
	}
}

func TestSearch_LimitOffsetWindow(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("edinet:%d:aa", i)
		if err := c.Index(ctx, testFiling(t, id, "edinet", nil)); err != nil {
			t.Fatalf("Index() failed: %v", err)
		}
	}

	opts := Options{Limit: 2, Offset: 1, OrderBy: "id"}
	results, err := c.Search(ctx, nil, opts)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].ID() != "edinet:1:aa" || results[1].ID() != "edinet:2:aa" {
		t.Errorf("window = [%s, %s]", results[0].ID(), results[1].ID())
	}
}

func TestSearch_OrderDescending(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	times := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, ts := range times {
		id := fmt.Sprintf("edinet:%d:aa", i)
		f := testFiling(t, id, "edinet", map[string]any{"created_at": ts})
		if err := c.Index(ctx, f); err != nil {
			t.Fatalf("Index() failed: %v", err)
		}
	}

	results, err := c.Search(ctx, nil, Options{OrderBy: "created_at", Desc: true})
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].ID() != "edinet:1:aa" {
		t.Errorf("newest first: got %s", results[0].ID())
	}
	if results[2].ID() != "edinet:0:aa" {
		t.Errorf("oldest last: got %s", results[2].ID())
	}
}

func TestSearch_JSONFieldFilter(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	ed, err := filing.NewEDINET(map[string]any{
		"id":          "edinet:S100:aa",
		"checksum":    "aa11",
		"name":        "S100",
		"created_at":  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		"edinet_code": "E12345",
	})
	if err != nil {
		t.Fatalf("NewEDINET() failed: %v", err)
	}
	if err := c.Index(ctx, ed); err != nil {
		t.Fatalf("Index() failed: %v", err)
	}
	if err := c.Index(ctx, testFiling(t, "edinet:S200:aa", "edinet", nil)); err != nil {
		t.Fatalf("Index() failed: %v", err)
	}

	results, err := c.Search(ctx, query.F("edinet_code").Eq("E12345"), Options{})
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].ID() != "edinet:S100:aa" {
		t.Errorf("matched %s", results[0].ID())
	}
}

func TestRestore_SubtypeShape(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	ed, err := filing.NewEDINET(map[string]any{
		"id":          "edinet:S100:aa",
		"checksum":    "aa11",
		"name":        "S100",
		"created_at":  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		"edinet_code": "E12345",
		"filer_name":  "トヨタ自動車株式会社",
	})
	if err != nil {
		t.Fatalf("NewEDINET() failed: %v", err)
	}
	if err := c.Index(ctx, ed); err != nil {
		t.Fatalf("Index() failed: %v", err)
	}

	got, err := c.Get(ctx, "edinet:S100:aa")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	restored, ok := got.(*filing.EDINET)
	if !ok {
		t.Fatalf("restored as %T, want *filing.EDINET", got)
	}
	if restored.EdinetCode() != "E12345" {
		t.Errorf("edinet_code = %q", restored.EdinetCode())
	}
	if restored.FilerName() != "トヨタ自動車株式会社" {
		t.Errorf("filer_name = %q", restored.FilerName())
	}
}

func TestRestore_UnknownSourceFallsBackToBase(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	f := testFiling(t, "custom:1:aa", "custom-archive", map[string]any{"tag": "annual"})
	if err := c.Index(ctx, f); err != nil {
		t.Fatalf("Index() failed: %v", err)
	}

	got, err := c.Get(ctx, "custom:1:aa")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if _, ok := got.(*filing.Base); !ok {
		t.Fatalf("restored as %T, want *filing.Base", got)
	}
	if v, _ := got.Get("tag"); v != "annual" {
		t.Errorf("extra field tag = %v, want retained", v)
	}
}

func TestClearAndStats(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	if err := c.Index(ctx, testFiling(t, "edinet:1:aa", "edinet", nil)); err != nil {
		t.Fatalf("Index() failed: %v", err)
	}
	if err := c.Index(ctx, testFiling(t, "edgar:1:aa", "edgar", nil)); err != nil {
		t.Fatalf("Index() failed: %v", err)
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Total != 2 || stats.Sources != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Earliest == "" || stats.Latest == "" {
		t.Errorf("stats range empty: %+v", stats)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	n, err := c.Count(ctx, nil)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if n != 0 {
		t.Errorf("count after Clear() = %d", n)
	}
}
