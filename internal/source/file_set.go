package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet manages the collection of files a run operates on.
//
// Files are loaded once, content is never mutated in place; a re-scan
// after a fix loads a fresh entry. The set is safe to share read-only
// across scan workers.
type FileSet struct {
	files   []File
	index   map[string]FileID // normalized path -> latest id
	baseDir string
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase creates a FileSet with a base directory used for
// relative path rendering.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// BaseDir returns the base directory, falling back to the working
// directory when none was set.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add stores content under path, computes the line index and hash, and
// returns a new FileID. A path may be added more than once; the index
// always points at the latest entry.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("file count overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    hash,
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// Load reads a file from disk and calls Add. Content is kept byte for
// byte: no BOM stripping, no line-ending normalization. Fixes must
// round-trip untouched regions exactly, so the set never rewrites what
// it read.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path comes from project discovery
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	flags := FileFlags(0)
	if hasBOM(content) {
		flags |= FileHadBOM
	}
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory file (tests, stdin) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// GetByPath returns the latest file entry for path, if loaded.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fileSet.index[normalizePath(path)]; ok {
		return &fileSet.files[id], true
	}
	return nil, false
}

// Len returns the number of entries in the set.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Position converts a byte offset in the file into a 1-based line/column.
func (f *File) Position(off uint32) LineCol {
	return toLineCol(f.LineIdx, off)
}

// LineCount returns the number of lines in the file. A trailing newline
// does not open a new line; an empty file has zero lines.
func (f *File) LineCount() int {
	if len(f.Content) == 0 {
		return 0
	}
	n := len(f.LineIdx)
	if f.Content[len(f.Content)-1] != '\n' {
		n++
	}
	return n
}

// Line returns the content of the 1-based line lineNum including its
// line ending, or "" when out of range.
func (f *File) Line(lineNum int) string {
	lines := f.Lines()
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// Lines splits the content into lines, each keeping its trailing
// newline (the final line may lack one). Mirrors what line-oriented
// patterns and the diff engine expect.
func (f *File) Lines() []string {
	return SplitLines(f.Content)
}

// RelPath renders the file path relative to baseDir with forward
// slashes. This is the form violations report under: stable across
// machines and matched by ignore-directive globs. Paths that cannot be
// made relative stay as stored.
func (f *File) RelPath(baseDir string) string {
	if baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			baseDir = wd
		}
	}
	if rel, err := filepath.Rel(baseDir, f.Path); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(f.Path)
}
