package fields

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-formkit/pkg/field"
)

// FileDescriptor is one entry of a file field's value. Existing files came
// from the server with the form's initial data; newly added ones carry
// Content until their deferred upload completes.
type FileDescriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	// Content is the pending binary payload of a newly added file. Cleared
	// once the upload finishes.
	Content []byte `json:"-"`
	// Existing marks files that were already stored server-side.
	Existing bool `json:"existing,omitempty"`
	// Reference is the storage handle returned by a completed upload.
	Reference string `json:"reference,omitempty"`
}

// Pending reports whether the descriptor still carries unsent binary content.
func (fd FileDescriptor) Pending() bool {
	return !fd.Existing && fd.Reference == "" && len(fd.Content) > 0
}

// Uploader is the transport collaborator that moves one file's bytes. The
// core never implements it; upload mechanics are out of scope.
type Uploader interface {
	Upload(ctx context.Context, fd FileDescriptor) (reference string, err error)
}

// FileOptions configures a File field.
type FileOptions struct {
	MinCount int
	MaxCount int
	Uploader Uploader
}

// File holds an ordered list of file descriptors, or nil when empty. Uploads
// are deferred and individually abortable: removing a file cancels its
// in-flight upload.
type File struct {
	*field.Base
	opts FileOptions

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewFile constructs a file field.
func NewFile(settings field.Settings, opts FileOptions) *File {
	f := &File{
		opts:    opts,
		cancels: make(map[string]context.CancelFunc),
	}
	f.Base = field.NewBase(settings,
		field.WithCoerce(f.coerceValue),
		field.WithCheck(f.checkValue),
	)
	return f
}

func (f *File) coerceValue(v any) any {
	switch typed := v.(type) {
	case nil:
		return nil
	case []FileDescriptor:
		if len(typed) == 0 {
			return nil
		}
		return typed
	case FileDescriptor:
		return []FileDescriptor{typed}
	case *FileDescriptor:
		if typed == nil {
			return nil
		}
		return []FileDescriptor{*typed}
	default:
		// Unknown shapes cannot be coerced into descriptors; drop them.
		return nil
	}
}

func (f *File) checkValue(_ context.Context, v any) error {
	var files []FileDescriptor
	if v != nil {
		files = v.([]FileDescriptor)
	}
	if f.opts.MinCount > 0 && len(files) < f.opts.MinCount {
		return errors.New(f.Message("validation.files.min", "%s requires at least %d files", f.DisplayName(), f.opts.MinCount))
	}
	if f.opts.MaxCount > 0 && len(files) > f.opts.MaxCount {
		return errors.New(f.Message("validation.files.max", "%s allows at most %d files", f.DisplayName(), f.opts.MaxCount))
	}
	return nil
}

// Files returns the current descriptor list.
func (f *File) Files() []FileDescriptor {
	if v, ok := f.Value().([]FileDescriptor); ok {
		return v
	}
	return nil
}

// Add appends a newly selected file as a user change.
func (f *File) Add(fd FileDescriptor, userChange bool) {
	f.SetValue(append(f.Files(), fd), userChange)
}

// Remove drops a file by id. An in-flight upload for that file is aborted.
func (f *File) Remove(id string, userChange bool) {
	f.mu.Lock()
	if cancel, ok := f.cancels[id]; ok {
		cancel()
		delete(f.cancels, id)
	}
	f.mu.Unlock()

	files := f.Files()
	kept := make([]FileDescriptor, 0, len(files))
	for _, fd := range files {
		if fd.ID != id {
			kept = append(kept, fd)
		}
	}
	f.SetValue(kept, userChange)
}

// Upload pushes one pending file through the configured uploader. The
// returned storage reference replaces the binary content on success.
func (f *File) Upload(ctx context.Context, id string) error {
	if f.opts.Uploader == nil {
		return fmt.Errorf("file %s: no uploader configured", f.Name())
	}

	var target *FileDescriptor
	files := append([]FileDescriptor(nil), f.Files()...)
	for i := range files {
		if files[i].ID == id {
			target = &files[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("file %s: unknown file %q", f.Name(), id)
	}
	if !target.Pending() {
		return nil
	}

	uctx, cancel := context.WithCancel(ctx)
	f.mu.Lock()
	f.cancels[id] = cancel
	f.mu.Unlock()
	defer func() {
		cancel()
		f.mu.Lock()
		delete(f.cancels, id)
		f.mu.Unlock()
	}()

	reference, err := f.opts.Uploader.Upload(uctx, *target)
	if err != nil {
		return fmt.Errorf("file %s: upload %q: %w", f.Name(), target.Name, err)
	}

	target.Reference = reference
	target.Content = nil
	f.SetValueInternal(files, false)
	return nil
}

// HasPending reports whether any file still carries unsent binary content.
// The submission layer uses it to decide between JSON and multipart.
func (f *File) HasPending() bool {
	for _, fd := range f.Files() {
		if fd.Pending() {
			return true
		}
	}
	return false
}
