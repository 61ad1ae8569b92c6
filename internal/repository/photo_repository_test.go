package repository

import (
	"testing"

	"github.com/iliyamo/auto-dealership/internal/model"
)

func TestMainOnInsert(t *testing.T) {
	// The first photo of a car is forced main even when the caller asked
	// for a regular photo.
	if !MainOnInsert(0, false) {
		t.Error("first photo must be forced main")
	}
	if !MainOnInsert(0, true) {
		t.Error("first photo requested main must stay main")
	}
	if MainOnInsert(3, false) {
		t.Error("later non-main photo must not become main")
	}
	if !MainOnInsert(3, true) {
		t.Error("requested main must be honored on a populated gallery")
	}
}

func TestReplacementMainPicksLowestOrder(t *testing.T) {
	photos := []model.CarPhoto{
		{ID: 7, DisplayOrder: 3},
		{ID: 4, DisplayOrder: 2},
		{ID: 9, DisplayOrder: 5},
	}
	id, ok := ReplacementMain(photos)
	if !ok || id != 4 {
		t.Fatalf("want photo 4, got %d (ok=%v)", id, ok)
	}
}

func TestReplacementMainBreaksTiesByID(t *testing.T) {
	photos := []model.CarPhoto{
		{ID: 12, DisplayOrder: 2},
		{ID: 3, DisplayOrder: 2},
		{ID: 8, DisplayOrder: 2},
	}
	id, ok := ReplacementMain(photos)
	if !ok || id != 3 {
		t.Fatalf("want photo 3 on tie, got %d (ok=%v)", id, ok)
	}
}

func TestReplacementMainEmpty(t *testing.T) {
	if _, ok := ReplacementMain(nil); ok {
		t.Error("empty gallery has no replacement candidate")
	}
}

func TestSortGalleryMainFirst(t *testing.T) {
	photos := []model.CarPhoto{
		{ID: 2, DisplayOrder: 1},
		{ID: 5, DisplayOrder: 4, IsMain: true},
		{ID: 3, DisplayOrder: 2},
		{ID: 4, DisplayOrder: 2},
	}
	SortGallery(photos)
	want := []uint64{5, 2, 3, 4}
	for i, id := range want {
		if photos[i].ID != id {
			t.Fatalf("position %d: want photo %d, got %d", i, id, photos[i].ID)
		}
	}
	if !photos[0].IsMain {
		t.Error("index 0 must be the main photo")
	}
}

// fakeGallery drives the same decision helpers the SQL transactions use,
// so the invariant can be checked over whole call sequences without a
// database.
type fakeGallery struct {
	photos []model.CarPhoto
	nextID uint64
}

func (g *fakeGallery) add(requestedMain bool) uint64 {
	g.nextID++
	var maxOrder uint32
	for _, p := range g.photos {
		if p.DisplayOrder > maxOrder {
			maxOrder = p.DisplayOrder
		}
	}
	main := MainOnInsert(len(g.photos), requestedMain)
	if main {
		for i := range g.photos {
			g.photos[i].IsMain = false
		}
	}
	g.photos = append(g.photos, model.CarPhoto{
		ID: g.nextID, DisplayOrder: maxOrder + 1, IsMain: main,
	})
	return g.nextID
}

func (g *fakeGallery) delete(id uint64) error {
	if len(g.photos) == 1 {
		return ErrLastPhoto
	}
	var wasMain bool
	kept := g.photos[:0]
	for _, p := range g.photos {
		if p.ID == id {
			wasMain = p.IsMain
			continue
		}
		kept = append(kept, p)
	}
	g.photos = kept
	if wasMain {
		if promote, ok := ReplacementMain(g.photos); ok {
			for i := range g.photos {
				g.photos[i].IsMain = g.photos[i].ID == promote
			}
		}
	}
	return nil
}

func (g *fakeGallery) mains() int {
	n := 0
	for _, p := range g.photos {
		if p.IsMain {
			n++
		}
	}
	return n
}

// After every mutation a gallery holds exactly min(1, len) main photos.
func (g *fakeGallery) checkInvariant(t *testing.T, step string) {
	t.Helper()
	want := 0
	if len(g.photos) > 0 {
		want = 1
	}
	if got := g.mains(); got != want {
		t.Fatalf("%s: gallery has %d main photos, want %d (size %d)", step, got, want, len(g.photos))
	}
}

// Scenario: the first photo is added with main not requested; the
// gallery must force it main anyway.
func TestFirstPhotoForcedMain(t *testing.T) {
	g := &fakeGallery{}
	g.add(false)
	g.checkInvariant(t, "after first add")
	SortGallery(g.photos)
	if len(g.photos) != 1 || !g.photos[0].IsMain {
		t.Fatal("single photo must be listed as main")
	}
}

// Scenario: add P1(main), P2, P3; delete P1.  Exactly one of the
// remaining photos (the lowest display order) becomes main and the
// gallery shrinks to two.
func TestDeleteMainPromotesByDisplayOrder(t *testing.T) {
	g := &fakeGallery{}
	p1 := g.add(true)
	p2 := g.add(false)
	g.add(false)
	g.checkInvariant(t, "after adds")

	if err := g.delete(p1); err != nil {
		t.Fatalf("delete main: %v", err)
	}
	g.checkInvariant(t, "after deleting main")
	if len(g.photos) != 2 {
		t.Fatalf("gallery size %d, want 2", len(g.photos))
	}
	for _, p := range g.photos {
		if p.IsMain && p.ID != p2 {
			t.Fatalf("promoted photo %d, want %d (lowest display order)", p.ID, p2)
		}
	}
}

func TestLastPhotoProtected(t *testing.T) {
	g := &fakeGallery{}
	only := g.add(true)
	if err := g.delete(only); err != ErrLastPhoto {
		t.Fatalf("deleting the only photo: got %v, want ErrLastPhoto", err)
	}
	g.checkInvariant(t, "after refused delete")
	if len(g.photos) != 1 {
		t.Fatal("refused delete must leave the photo in place")
	}
}

// Long mixed sequence: the invariant holds after every step.
func TestGallerySequenceHoldsInvariant(t *testing.T) {
	g := &fakeGallery{}
	ids := []uint64{}
	for i := 0; i < 5; i++ {
		ids = append(ids, g.add(i%2 == 0))
		g.checkInvariant(t, "add")
	}
	for _, id := range ids[:3] {
		if err := g.delete(id); err != nil {
			t.Fatalf("delete %d: %v", id, err)
		}
		g.checkInvariant(t, "delete")
	}
}
