package types

import "time"

// EntryKind tells directories and regular files apart in a listing
type EntryKind string

const (
	KindFile      EntryKind = "file"
	KindDirectory EntryKind = "directory"
)

// FileClass selects the viewer used when a file is opened
type FileClass string

const (
	ClassEditable FileClass = "editable"
	ClassImage    FileClass = "image"
	ClassOpaque   FileClass = "opaque"
)

// DirEntry is one immediate child of a listed directory
type DirEntry struct {
	Name string    `json:"name"`
	Link string    `json:"link"`
	Kind EntryKind `json:"kind"`
}

// FileEntry extends DirEntry with what the listing needs to pick a viewer
type FileEntry struct {
	DirEntry
	Class FileClass `json:"class"`
	Icon  string    `json:"icon"`
	Size  int64     `json:"size"`
}

// Listing is the partitioned content of one directory, computed per request
type Listing struct {
	Path        string      `json:"path"`
	Directories []DirEntry  `json:"directories"`
	Files       []FileEntry `json:"files"`
}

// FileInfo backs the info view
type FileInfo struct {
	Name     string    `json:"name"`
	Link     string    `json:"link"`
	Kind     EntryKind `json:"kind"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"modTime"`
	MimeType string    `json:"mimeType"`
	// Items counts every entry below a directory; zero for files
	Items int64 `json:"items"`
}

// Preferences is the persisted display configuration
type Preferences struct {
	Theme    string `json:"theme"`
	FontSize int    `json:"fontSize"`
}
