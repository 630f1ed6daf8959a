package filesystem

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Resolver maps virtual, slash separated paths onto the upload root and back.
type Resolver struct {
	root string
}

// Crumb is one link of a breadcrumb trail
type Crumb struct {
	Name string
	Link string
}

// NewResolver anchors virtual paths at root, which is made absolute.
func NewResolver(root string) (*Resolver, error) {
	if root == "" {
		return nil, fmt.Errorf("upload root cannot be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload root: %w", err)
	}
	return &Resolver{root: abs}, nil
}

// Root returns the absolute upload root.
func (r *Resolver) Root() string {
	return r.root
}

// Clean returns the canonical form of a virtual path: rooted at "/", no
// trailing slash, no empty or "." segments.
func Clean(v string) string {
	return path.Clean("/" + strings.TrimPrefix(v, "/"))
}

// Parent drops the last segment of v. The parent of "/" is "/".
func Parent(v string) string {
	return path.Dir(Clean(v))
}

// Join appends a single name to a virtual directory.
func Join(dir, name string) string {
	return path.Join(Clean(dir), name)
}

// Resolve turns a virtual path into an absolute path inside the root.
// Paths containing ".." segments are rejected rather than clamped.
func (r *Resolver) Resolve(v string) (string, error) {
	for _, seg := range strings.Split(v, "/") {
		if seg == ".." {
			return "", invalid("resolve", v)
		}
	}

	abs := filepath.Join(r.root, filepath.FromSlash(Clean(v)))
	if !r.contains(abs) {
		return "", invalid("resolve", v)
	}
	return abs, nil
}

// ToVirtual strips the root from an absolute path. The root itself maps to "/".
func (r *Resolver) ToVirtual(abs string) (string, error) {
	rel, err := filepath.Rel(r.root, filepath.Clean(abs))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", invalid("virtual", abs)
	}
	if rel == "." {
		return "/", nil
	}
	return "/" + filepath.ToSlash(rel), nil
}

func (r *Resolver) contains(abs string) bool {
	if abs == r.root {
		return true
	}
	prefix := r.root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(abs, prefix)
}

// Breadcrumbs returns one crumb per segment of v, each linking to the path
// accumulated up to and including that segment. The root has no crumbs.
func Breadcrumbs(v string) []Crumb {
	v = Clean(v)
	if v == "/" {
		return nil
	}

	parts := strings.Split(strings.TrimPrefix(v, "/"), "/")
	crumbs := make([]Crumb, 0, len(parts))
	current := ""
	for _, part := range parts {
		current = current + "/" + part
		crumbs = append(crumbs, Crumb{Name: part, Link: current})
	}
	return crumbs
}

// EscapePath makes v safe for a query string while keeping the slashes
// readable.
func EscapePath(v string) string {
	v = Clean(v)
	if v == "/" {
		return "/"
	}
	parts := strings.Split(strings.TrimPrefix(v, "/"), "/")
	for i, part := range parts {
		parts[i] = url.QueryEscape(part)
	}
	return "/" + strings.Join(parts, "/")
}

// ListingURL is the redirect target showing directory v.
func ListingURL(v string) string {
	return "/filemanager?name=" + EscapePath(v)
}
