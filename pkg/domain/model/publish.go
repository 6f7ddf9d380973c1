package model

// PublishResult summarizes one publish run
type PublishResult struct {
	Release   *ReleaseEvent
	Previous  *Release // nil when the repository had no prior release
	Artifacts []*Artifact
	Commits   []*Commit
	Body      string
	DryRun    bool
}

// NewArtifacts returns artifacts that were not in the previous release
func (r *PublishResult) NewArtifacts() []*Artifact {
	var out []*Artifact
	for _, a := range r.Artifacts {
		if a.New {
			out = append(out, a)
		}
	}
	return out
}

// ActionContext holds what the Actions runner provides for a workflow step
type ActionContext struct {
	EventName    string
	EventPath    string
	SHA          string
	ArtifactsDir string
}
