package source

type (
	// FileID uniquely identifies a file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about how a file entered the set.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM indicates the file began with a UTF-8 BOM. The bytes
	// stay in Content; the flag only records the observation.
	FileHadBOM
)

// File captures metadata and content for a single target file.
//
// Content keeps bytes exactly as read (line endings included) so that
// fixes and diffs reproduce the file byte for byte. LineIdx records the
// offset of every '\n' for O(log n) position lookups.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a human-readable position. Both fields are 1-based.
type LineCol struct {
	Line uint32
	Col  uint32
}
