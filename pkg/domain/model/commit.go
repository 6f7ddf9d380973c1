package model

import "strings"

// Commit is one entry of the changelog
type Commit struct {
	SHA         string
	Message     string
	AuthorName  string // From git metadata, used when no GitHub user is linked
	AuthorLogin string
	AuthorURL   string
}

// Subject returns the first line of the commit message
func (c *Commit) Subject() string {
	subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return strings.TrimSpace(subject)
}
