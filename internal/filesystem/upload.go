package filesystem

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"filedeck/internal/naming"
)

// UploadBatch stages uploaded files outside the root until the whole
// request has been received. Nothing reaches the root unless every name in
// the batch is valid.
type UploadBatch struct {
	dir   string
	files []stagedFile
	size  int64
}

type stagedFile struct {
	name string
	path string
}

// NewUploadBatch creates an empty staging area.
func (d *DiskFS) NewUploadBatch() (*UploadBatch, error) {
	dir, err := os.MkdirTemp(d.stagingDir, "filedeck-upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	return &UploadBatch{dir: dir}, nil
}

// Add copies r into the staging area under the client supplied name. The
// name is only checked on commit.
func (b *UploadBatch) Add(name string, r io.Reader) error {
	f, err := os.CreateTemp(b.dir, "part-*")
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", name, err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("failed to stage %s: %w", name, err)
	}

	b.size += n
	b.files = append(b.files, stagedFile{name: name, path: f.Name()})
	return nil
}

// Len is the number of staged files
func (b *UploadBatch) Len() int {
	return len(b.files)
}

// Size is the number of staged bytes
func (b *UploadBatch) Size() int64 {
	return b.size
}

// Discard removes every staged file. Safe to call after a commit.
func (b *UploadBatch) Discard() error {
	return os.RemoveAll(b.dir)
}

// CommitUploads moves a staged batch into directory dir and returns the
// virtual paths of the stored files. One invalid name rejects the whole
// batch. The batch is always discarded.
func (d *DiskFS) CommitUploads(ctx context.Context, dir string, b *UploadBatch) ([]string, error) {
	defer b.Discard()

	names := make([]string, len(b.files))
	for i, f := range b.files {
		name := naming.Normalize(f.name)
		if !naming.IsValidName(name) {
			return nil, invalid("upload", f.name)
		}
		names[i] = name
	}

	absDir, err := d.requireDir("upload", dir)
	if err != nil {
		return nil, err
	}

	siblings, err := readNames(absDir)
	if err != nil {
		return nil, wrap("upload", dir, err)
	}
	for i, name := range names {
		names[i] = d.names.File(name, siblings)
		siblings = append(siblings, names[i])
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range b.files {
		dst := filepath.Join(absDir, names[i])
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return moveFile(f.path, dst)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, wrap("upload", dir, err)
	}

	links := make([]string, len(names))
	for i, name := range names {
		links[i] = Join(dir, name)
	}
	return links, nil
}

// moveFile renames src to dst, copying when they live on different devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
