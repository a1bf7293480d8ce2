package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/imagegallery/gallery/internal/core/domain"
	"github.com/imagegallery/gallery/internal/core/ports"
)

func seededImageSvc() (*ImageService, *stubImageRepo, *stubUserRepo) {
	images := newStubImageRepo(
		domain.Image{ID: "1", Name: "Cat.png", Src: "/uploads/1.png", AuthorID: "alice"},
		domain.Image{ID: "2", Name: "concatenate.jpg", Src: "/uploads/2.jpg", AuthorID: "bob"},
		domain.Image{ID: "3", Name: "dog.png", Src: "/uploads/3.png", AuthorID: "alice"},
		domain.Image{ID: "4", Name: "orphan.png", Src: "/uploads/4.png", AuthorID: "deleted-user"},
	)
	users := newStubUserRepo(
		domain.User{ID: "alice", Username: "alice"},
		domain.User{ID: "bob", Username: "bob"},
	)
	return NewImageService(images, users, discardLogger), images, users
}

func ids(views []domain.ImageView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestImageService_Query_All(t *testing.T) {
	svc, _, _ := seededImageSvc()

	views, err := svc.Query(context.Background(), ports.ImageFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got := ids(views); !equalStrings(got, []string{"1", "2", "3", "4"}) {
		t.Fatalf("unexpected ids: %v", got)
	}
}

func TestImageService_Query_ByAuthor(t *testing.T) {
	svc, _, _ := seededImageSvc()

	views, err := svc.Query(context.Background(), ports.ImageFilter{Author: "alice"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got := ids(views); !equalStrings(got, []string{"1", "3"}) {
		t.Fatalf("unexpected ids: %v", got)
	}
	for _, v := range views {
		if v.Author.ID != "alice" || v.Author.Username != "alice" {
			t.Fatalf("unexpected author: %+v", v.Author)
		}
	}
}

func TestImageService_Query_ByNameSubstringCaseInsensitive(t *testing.T) {
	svc, _, _ := seededImageSvc()

	views, err := svc.Query(context.Background(), ports.ImageFilter{NamePattern: "cat"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got := ids(views); !equalStrings(got, []string{"1", "2"}) {
		t.Fatalf("expected Cat.png and concatenate.jpg, got %v", got)
	}
}

func TestImageService_Query_UnknownAuthorSentinel(t *testing.T) {
	svc, _, _ := seededImageSvc()

	views, err := svc.Query(context.Background(), ports.ImageFilter{NamePattern: "orphan"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 image, got %d", len(views))
	}
	if views[0].Author != domain.UnknownUser() {
		t.Fatalf("expected unknown author, got %+v", views[0].Author)
	}
}

func TestImageService_Query_SingleBatchLookupOfDistinctAuthors(t *testing.T) {
	svc, _, users := seededImageSvc()

	if _, err := svc.Query(context.Background(), ports.ImageFilter{}); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(users.lookups) != 1 {
		t.Fatalf("expected one batch lookup, got %d", len(users.lookups))
	}
	got := append([]string(nil), users.lookups[0]...)
	sort.Strings(got)
	if !equalStrings(got, []string{"alice", "bob", "deleted-user"}) {
		t.Fatalf("expected distinct authors, got %v", got)
	}
}

func TestImageService_Query_EmptySkipsAuthorLookup(t *testing.T) {
	svc, _, users := seededImageSvc()

	views, err := svc.Query(context.Background(), ports.ImageFilter{Author: "nobody"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if views == nil || len(views) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", views)
	}
	if len(users.lookups) != 0 {
		t.Fatalf("expected no author lookup")
	}
}

func TestImageService_Query_Errors(t *testing.T) {
	svc, images, users := seededImageSvc()

	images.findErr = errBoom
	if _, err := svc.Query(context.Background(), ports.ImageFilter{}); !errors.Is(err, errBoom) {
		t.Fatalf("expected find error, got %v", err)
	}

	images.findErr = nil
	users.findErr = errBoom
	if _, err := svc.Query(context.Background(), ports.ImageFilter{}); !errors.Is(err, errBoom) {
		t.Fatalf("expected author lookup error, got %v", err)
	}
}

func TestImageService_Update_Rename(t *testing.T) {
	svc, images, _ := seededImageSvc()
	name := "new"

	ok, err := svc.Update(context.Background(), "1", ports.ImageUpdate{Name: &name})
	if err != nil || !ok {
		t.Fatalf("Update = %v, %v; want true, nil", ok, err)
	}

	img := images.images["1"]
	if img.Name != "new" || img.Src != "/uploads/1.png" || img.AuthorID != "alice" {
		t.Fatalf("unexpected image after rename: %+v", img)
	}
}

func TestImageService_Update_Unmatched(t *testing.T) {
	svc, _, _ := seededImageSvc()
	name := "new"

	ok, err := svc.Update(context.Background(), "missing", ports.ImageUpdate{Name: &name})
	if err != nil || ok {
		t.Fatalf("Update = %v, %v; want false, nil", ok, err)
	}
}

func TestImageService_Update_NoChange(t *testing.T) {
	svc, _, _ := seededImageSvc()
	same := "Cat.png"

	if ok, _ := svc.Update(context.Background(), "1", ports.ImageUpdate{Name: &same}); ok {
		t.Fatalf("expected unchanged rename to report false")
	}
	if ok, _ := svc.Update(context.Background(), "1", ports.ImageUpdate{}); ok {
		t.Fatalf("expected empty update to report false")
	}
}

func TestImageService_Create(t *testing.T) {
	svc, images, _ := seededImageSvc()

	id, err := svc.Create(context.Background(), ports.NewImageInput{Name: "Cat.png", Src: "/uploads/x.png", AuthorID: "bob"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatalf("expected id")
	}
	if images.images[id].Name != "Cat.png" || images.images[id].AuthorID != "bob" {
		t.Fatalf("unexpected stored image: %+v", images.images[id])
	}

	// Duplicate names are allowed.
	if _, err := svc.Create(context.Background(), ports.NewImageInput{Name: "Cat.png", Src: "/uploads/y.png", AuthorID: "bob"}); err != nil {
		t.Fatalf("duplicate name rejected: %v", err)
	}
}
