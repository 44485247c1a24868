package fields_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/fields"
)

type stubUploader struct {
	block chan struct{}
	refs  map[string]string
}

func (u *stubUploader) Upload(ctx context.Context, fd fields.FileDescriptor) (string, error) {
	if u.block != nil {
		select {
		case <-u.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if ref, ok := u.refs[fd.ID]; ok {
		return ref, nil
	}
	return "ref-" + fd.ID, nil
}

func TestFileAddRemoveAndCounts(t *testing.T) {
	f := fields.NewFile(field.Settings{Name: "docs", Label: "Documents"}, fields.FileOptions{MinCount: 1, MaxCount: 2})

	mustFail(t, f, "at least 1")

	f.Add(fields.FileDescriptor{ID: "a", Name: "a.pdf", Content: []byte("x")}, true)
	mustValidate(t, f)

	f.Add(fields.FileDescriptor{ID: "b", Name: "b.pdf"}, true)
	f.Add(fields.FileDescriptor{ID: "c", Name: "c.pdf"}, true)
	mustFail(t, f, "at most 2")

	f.Remove("c", true)
	mustValidate(t, f)

	if !f.HasPending() {
		t.Fatal("file a still carries content, HasPending should be true")
	}
}

func TestFileExistingVsNew(t *testing.T) {
	f := fields.NewFile(field.Settings{Name: "docs"}, fields.FileOptions{})
	f.SetValue([]fields.FileDescriptor{
		{ID: "old", Name: "old.pdf", Existing: true},
	}, false)
	if f.HasPending() {
		t.Fatal("existing files are never pending")
	}
	f.Add(fields.FileDescriptor{ID: "new", Name: "new.pdf", Content: []byte("data")}, true)
	if !f.HasPending() {
		t.Fatal("newly added file with content must be pending")
	}
}

func TestFileUploadStoresReference(t *testing.T) {
	up := &stubUploader{refs: map[string]string{"a": "stored/a"}}
	f := fields.NewFile(field.Settings{Name: "docs"}, fields.FileOptions{Uploader: up})
	f.Add(fields.FileDescriptor{ID: "a", Name: "a.pdf", Content: []byte("x")}, true)

	if err := f.Upload(context.Background(), "a"); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	files := f.Files()
	if files[0].Reference != "stored/a" || files[0].Content != nil {
		t.Fatalf("descriptor after upload: %+v", files[0])
	}
	if f.HasPending() {
		t.Fatal("uploaded file should no longer be pending")
	}
}

func TestFileRemoveAbortsInFlightUpload(t *testing.T) {
	up := &stubUploader{block: make(chan struct{})}
	f := fields.NewFile(field.Settings{Name: "docs"}, fields.FileOptions{Uploader: up})
	f.Add(fields.FileDescriptor{ID: "a", Name: "a.pdf", Content: []byte("x")}, true)

	done := make(chan error, 1)
	go func() { done <- f.Upload(context.Background(), "a") }()

	time.Sleep(20 * time.Millisecond)
	f.Remove("a", true)

	select {
	case err := <-done:
		if err == nil || !errors.Is(err, context.Canceled) {
			t.Fatalf("Upload after Remove = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("upload never returned after removal")
	}
	if len(f.Files()) != 0 {
		t.Fatalf("file still present: %+v", f.Files())
	}
}

func TestFileUnknownShapesCoerceToNil(t *testing.T) {
	f := fields.NewFile(field.Settings{Name: "docs"}, fields.FileOptions{})
	f.SetValue("not a file", true)
	if f.Value() != nil {
		t.Fatalf("Value = %v", f.Value())
	}
}
