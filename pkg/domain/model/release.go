package model

import "fmt"

// Repository identifies a GitHub repository
type Repository struct {
	Owner string
	Name  string
}

// FullName returns "owner/name"
func (r Repository) FullName() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// ReleaseEvent represents the release a run publishes to, extracted from a release event payload
type ReleaseEvent struct {
	Action     string
	ReleaseID  int64
	TagName    string
	UploadURL  string // Hypermedia template, e.g. ".../releases/1/assets{?name,label}"
	Body       string
	CommitSHA  string // Head of the changelog range
	Repository Repository
}

// Head returns the ref used as the end of the changelog range
func (e *ReleaseEvent) Head() string {
	if e.CommitSHA != "" {
		return e.CommitSHA
	}
	return e.TagName
}

// Release is a release read back from the GitHub API
type Release struct {
	ID         int64
	TagName    string
	Draft      bool
	Prerelease bool
	AssetNames []string
}

// HasAsset reports whether the release already carries an asset named name
func (r *Release) HasAsset(name string) bool {
	for _, n := range r.AssetNames {
		if n == name {
			return true
		}
	}
	return false
}
