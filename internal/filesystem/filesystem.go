package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"

	"filedeck/internal/naming"
	"filedeck/internal/scaffold"
	"filedeck/pkg/types"
)

// Options configures a DiskFS
type Options struct {
	Root             string
	StagingDir       string
	DefaultExtension string
	Allocator        *naming.Allocator
}

// DiskFS performs every file manager operation directly against the upload
// root. It holds no state besides its configuration; each call reflects the
// disk at the time it runs.
type DiskFS struct {
	resolver   *Resolver
	names      *naming.Allocator
	defaultExt string
	stagingDir string
}

func New(opts Options) (*DiskFS, error) {
	resolver, err := NewResolver(opts.Root)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(resolver.Root(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload root: %w", err)
	}

	names := opts.Allocator
	if names == nil {
		names = naming.Default
	}
	defaultExt := scaffold.NormalizeExt(opts.DefaultExtension)
	if defaultExt == "" {
		defaultExt = ".txt"
	}

	return &DiskFS{
		resolver:   resolver,
		names:      names,
		defaultExt: defaultExt,
		stagingDir: opts.StagingDir,
	}, nil
}

// Resolver exposes the path mapping used by this filesystem
func (d *DiskFS) Resolver() *Resolver {
	return d.resolver
}

// List returns the immediate children of directory v, directories and
// regular files apart, each sorted by name.
func (d *DiskFS) List(v string) (*types.Listing, error) {
	abs, err := d.requireDir("list", v)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, wrap("list", v, err)
	}

	v = Clean(v)
	listing := &types.Listing{
		Path:        v,
		Directories: []types.DirEntry{},
		Files:       []types.FileEntry{},
	}

	for _, entry := range entries {
		name := entry.Name()
		link := Join(v, name)

		switch {
		case entry.IsDir():
			listing.Directories = append(listing.Directories, types.DirEntry{
				Name: name,
				Link: link,
				Kind: types.KindDirectory,
			})
		case entry.Type().IsRegular():
			var size int64
			if info, err := entry.Info(); err == nil {
				size = info.Size()
			}
			_, ext := naming.SplitExt(name)
			listing.Files = append(listing.Files, types.FileEntry{
				DirEntry: types.DirEntry{Name: name, Link: link, Kind: types.KindFile},
				Class:    scaffold.Classify(ext),
				Icon:     iconFor(filepath.Join(abs, name)),
				Size:     size,
			})
		}
	}

	return listing, nil
}

// CreateDir makes a sub-directory of dir and returns its virtual path. A
// taken name gets a timestamp suffix.
func (d *DiskFS) CreateDir(dir, rawName string) (string, error) {
	name, err := prepareName("mkdir", rawName)
	if err != nil {
		return "", err
	}

	absDir, err := d.requireDir("mkdir", dir)
	if err != nil {
		return "", err
	}

	siblings, err := readNames(absDir)
	if err != nil {
		return "", wrap("mkdir", dir, err)
	}

	final := d.names.Dir(name, siblings)
	if err := os.Mkdir(filepath.Join(absDir, final), 0755); err != nil {
		return "", wrap("mkdir", Join(dir, final), err)
	}
	return Join(dir, final), nil
}

// CreateFile makes a new file in dir filled with the starter content for
// its extension. Without ext and without an extension in the name, the
// configured default extension is used.
func (d *DiskFS) CreateFile(dir, rawName, ext string) (string, error) {
	name, err := prepareName("create", rawName)
	if err != nil {
		return "", err
	}
	ext = scaffold.NormalizeExt(ext)

	switch {
	case ext != "":
		if !strings.HasSuffix(strings.ToLower(name), ext) {
			name += ext
		}
	default:
		if _, own := naming.SplitExt(name); own == "" {
			name += d.defaultExt
		}
	}

	base, _ := naming.SplitExt(name)
	if !naming.IsValidName(name) || !naming.IsValidName(base) {
		return "", invalid("create", rawName)
	}

	absDir, err := d.requireDir("create", dir)
	if err != nil {
		return "", err
	}

	siblings, err := readNames(absDir)
	if err != nil {
		return "", wrap("create", dir, err)
	}

	final := d.names.File(name, siblings)
	link := Join(dir, final)

	f, err := os.OpenFile(filepath.Join(absDir, final), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", wrap("create", link, err)
	}
	_, finalExt := naming.SplitExt(final)
	if _, err := f.WriteString(scaffold.DefaultContent(finalExt)); err != nil {
		f.Close()
		return "", wrap("create", link, err)
	}
	if err := f.Close(); err != nil {
		return "", wrap("create", link, err)
	}
	return link, nil
}

// RenameDir gives directory v a new name within the same parent and returns
// the new virtual path.
func (d *DiskFS) RenameDir(v, rawName string) (string, error) {
	if Clean(v) == "/" {
		return "", invalid("rename", v)
	}
	name, err := prepareName("rename", rawName)
	if err != nil {
		return "", err
	}

	abs, err := d.requireDir("rename", v)
	if err != nil {
		return "", err
	}
	if name == filepath.Base(abs) {
		return Clean(v), nil
	}

	parent := Parent(v)
	absParent := filepath.Dir(abs)
	siblings, err := readNames(absParent)
	if err != nil {
		return "", wrap("rename", parent, err)
	}

	final := d.names.Dir(name, siblings)
	if err := os.Rename(abs, filepath.Join(absParent, final)); err != nil {
		return "", wrap("rename", v, err)
	}
	return Join(parent, final), nil
}

// RenameFile renames file v, keeping its current extension, and returns the
// new virtual path.
func (d *DiskFS) RenameFile(v, rawName string) (string, error) {
	base, err := prepareName("rename", rawName)
	if err != nil {
		return "", err
	}

	abs, _, err := d.requireFile("rename", v)
	if err != nil {
		return "", err
	}

	oldName := filepath.Base(abs)
	_, ext := naming.SplitExt(oldName)
	name := base + ext
	if !naming.IsValidName(name) {
		return "", invalid("rename", rawName)
	}
	if name == oldName {
		return Clean(v), nil
	}

	parent := Parent(v)
	absParent := filepath.Dir(abs)
	siblings, err := readNames(absParent)
	if err != nil {
		return "", wrap("rename", parent, err)
	}

	final := d.names.File(name, siblings)
	if err := os.Rename(abs, filepath.Join(absParent, final)); err != nil {
		return "", wrap("rename", v, err)
	}
	return Join(parent, final), nil
}

// RemoveDir deletes directory v and everything below it, returning its
// parent. The root cannot be removed.
func (d *DiskFS) RemoveDir(v string) (string, error) {
	if Clean(v) == "/" {
		return "", invalid("remove", v)
	}
	abs, err := d.requireDir("remove", v)
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(abs); err != nil {
		return "", wrap("remove", v, err)
	}
	return Parent(v), nil
}

// RemoveFile deletes file v and returns its parent.
func (d *DiskFS) RemoveFile(v string) (string, error) {
	abs, _, err := d.requireFile("remove", v)
	if err != nil {
		return "", err
	}
	if err := os.Remove(abs); err != nil {
		return "", wrap("remove", v, err)
	}
	return Parent(v), nil
}

// ReadFile returns the content of file v.
func (d *DiskFS) ReadFile(v string) ([]byte, error) {
	abs, _, err := d.requireFile("read", v)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, wrap("read", v, err)
	}
	return data, nil
}

// WriteFile replaces the content of the existing file v.
func (d *DiskFS) WriteFile(v, content string) error {
	abs, info, err := d.requireFile("write", v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(abs, []byte(content), info.Mode().Perm()); err != nil {
		return wrap("write", v, err)
	}
	return nil
}

// Open opens file v for streaming. The caller closes the file.
func (d *DiskFS) Open(v string) (*os.File, fs.FileInfo, error) {
	abs, info, err := d.requireFile("open", v)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, nil, wrap("open", v, err)
	}
	return f, info, nil
}

// Path resolves file v to its absolute path after checking it exists.
func (d *DiskFS) Path(v string) (string, error) {
	abs, _, err := d.requireFile("stat", v)
	return abs, err
}

// Info describes file or directory v. Directories report the total size
// and number of entries below them.
func (d *DiskFS) Info(v string) (*types.FileInfo, error) {
	abs, err := d.resolver.Resolve(v)
	if err != nil {
		return nil, err
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, wrap("info", v, err)
	}

	v = Clean(v)
	info := &types.FileInfo{
		Name:    path.Base(v),
		Link:    v,
		ModTime: st.ModTime(),
	}
	if v == "/" {
		info.Name = "/"
	}

	if !st.IsDir() {
		info.Kind = types.KindFile
		info.Size = st.Size()
		info.MimeType = "application/octet-stream"
		if mt, err := mimetype.DetectFile(abs); err == nil {
			info.MimeType = mt.String()
		}
		return info, nil
	}

	info.Kind = types.KindDirectory
	info.MimeType = "inode/directory"

	var size, items atomic.Int64
	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, abs, func(p string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == abs {
			return nil
		}
		items.Add(1)
		if de.Type().IsRegular() {
			if fi, err := de.Info(); err == nil {
				size.Add(fi.Size())
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrap("info", v, err)
	}

	info.Size = size.Load()
	info.Items = items.Load()
	return info, nil
}

func (d *DiskFS) requireDir(op, v string) (string, error) {
	abs, err := d.resolver.Resolve(v)
	if err != nil {
		return "", err
	}
	st, err := os.Stat(abs)
	if err != nil {
		return "", wrap(op, v, err)
	}
	if !st.IsDir() {
		return "", notFound(op, v)
	}
	return abs, nil
}

func (d *DiskFS) requireFile(op, v string) (string, fs.FileInfo, error) {
	if Clean(v) == "/" {
		return "", nil, notFound(op, v)
	}
	abs, err := d.resolver.Resolve(v)
	if err != nil {
		return "", nil, err
	}
	st, err := os.Stat(abs)
	if err != nil {
		return "", nil, wrap(op, v, err)
	}
	if !st.Mode().IsRegular() {
		return "", nil, notFound(op, v)
	}
	return abs, st, nil
}

func prepareName(op, raw string) (string, error) {
	name := naming.Normalize(raw)
	if !naming.IsValidName(name) {
		return "", invalid(op, raw)
	}
	return name, nil
}

func readNames(absDir string) ([]string, error) {
	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

func iconFor(abs string) string {
	mt, err := mimetype.DetectFile(abs)
	if err != nil {
		return "unknown"
	}
	return scaffold.Icon(mt.String())
}
