package model

// Artifact is a local file to be uploaded as a release asset
type Artifact struct {
	Name        string
	Path        string
	Size        int64
	ContentType string
	New         bool // Not present in the previous release
}
