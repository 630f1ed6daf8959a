// Package naming validates user supplied file and directory names and picks
// non-colliding names inside a directory.
package naming

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// reserved holds the characters rejected on common filesystems
const reserved = `/\:*?"<>|`

// CopyMarker separates the original base name from the collision timestamp
const CopyMarker = "_copy_"

// IsValidName reports whether name can be used as a single path segment.
func IsValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, reserved)
}

// Normalize trims surrounding whitespace and replaces every remaining
// whitespace rune with an underscore.
func Normalize(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
}

// SplitExt splits name at its last dot. A name whose only dot is the leading
// one (".env") has no extension.
func SplitExt(name string) (base, ext string) {
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return name, ""
	}
	return name[:i], name[i:]
}

// Allocator produces names that are absent from a set of siblings. The
// check and the later create are separate steps, so two requests racing for
// the same name can still collide on disk.
type Allocator struct {
	Now func() time.Time
}

// Default uses the wall clock.
var Default = &Allocator{Now: time.Now}

// Allocate returns desired unchanged when no sibling has that name, and
// otherwise appends a millisecond timestamp to the base name, keeping the
// extension last.
func Allocate(desired string, existing []string) string {
	return Default.File(desired, existing)
}

// AllocateDir is Allocate for directories; the whole name is the base.
func AllocateDir(desired string, existing []string) string {
	return Default.Dir(desired, existing)
}

func (a *Allocator) File(desired string, existing []string) string {
	base, ext := SplitExt(desired)
	return a.allocate(desired, base, ext, existing)
}

func (a *Allocator) Dir(desired string, existing []string) string {
	return a.allocate(desired, desired, "", existing)
}

func (a *Allocator) allocate(desired, base, ext string, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		taken[name] = struct{}{}
	}
	if _, ok := taken[desired]; !ok {
		return desired
	}

	var last int64
	for {
		stamp := a.now().UnixMilli()
		if stamp <= last {
			stamp = last + 1
		}
		last = stamp

		candidate := base + CopyMarker + strconv.FormatInt(stamp, 10) + ext
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}

func (a *Allocator) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}
