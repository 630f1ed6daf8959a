package naming

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidName_RejectsReservedCharacters(t *testing.T) {
	for _, c := range strings.Split(reserved, "") {
		t.Run(c, func(t *testing.T) {
			assert.False(t, IsValidName("bad"+c+"name"))
		})
	}
}

func TestIsValidName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"alphanumeric", "report2024", true},
		{"underscores", "my_notes_v2", true},
		{"with extension", "index.html", true},
		{"dotfile", ".env", true},
		{"empty", "", false},
		{"dot", ".", false},
		{"dot dot", "..", false},
		{"slash", "bad/name.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidName(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "my_file_name", Normalize("  my file\tname "))
	assert.Equal(t, "plain", Normalize("plain"))
	assert.Equal(t, "", Normalize("   "))
}

func TestSplitExt(t *testing.T) {
	tests := []struct {
		input, base, ext string
	}{
		{"index.html", "index", ".html"},
		{"archive.tar.gz", "archive.tar", ".gz"},
		{"README", "README", ""},
		{".env", ".env", ""},
	}

	for _, tt := range tests {
		base, ext := SplitExt(tt.input)
		assert.Equal(t, tt.base, base, tt.input)
		assert.Equal(t, tt.ext, ext, tt.input)
	}
}

func TestAllocate_UnchangedWhenFree(t *testing.T) {
	existing := []string{"a.txt", "b.txt"}
	assert.Equal(t, "c.txt", Allocate("c.txt", existing))
	assert.Equal(t, "c.txt", Allocate("c.txt", existing))
}

func TestAllocate_CollisionPreservesExtension(t *testing.T) {
	existing := []string{"index.html", "style.css"}

	got := Allocate("index.html", existing)

	assert.NotContains(t, existing, got)
	assert.Regexp(t, regexp.MustCompile(`^index_copy_\d+\.html$`), got)
}

func TestAllocateDir_UsesCopySuffix(t *testing.T) {
	got := AllocateDir("notes", []string{"notes"})
	assert.Regexp(t, regexp.MustCompile(`^notes_copy_\d+$`), got)

	// directory names never split at a dot
	got = AllocateDir("v1.2", []string{"v1.2"})
	assert.Regexp(t, regexp.MustCompile(`^v1\.2_copy_\d+$`), got)
}

func TestAllocator_FrozenClockStillTerminates(t *testing.T) {
	frozen := time.UnixMilli(1700000000000)
	a := &Allocator{Now: func() time.Time { return frozen }}

	existing := []string{
		"photo.png",
		"photo_copy_1700000000000.png",
		"photo_copy_1700000000001.png",
	}

	got := a.File("photo.png", existing)
	require.NotContains(t, existing, got)
	assert.Equal(t, "photo_copy_1700000000002.png", got)
}
