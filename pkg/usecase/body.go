package usecase

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/herald/pkg/domain/model"
	"github.com/m-mizutani/herald/pkg/domain/types"
)

type bodyFormat struct {
	heading     string
	fullMessage bool
}

// renderBody builds the release body. The changelog section exists only when
// a previous release exists; an empty commit range renders "n/a".
func renderBody(format bodyFormat, artifacts []*model.Artifact, previous *model.Release, commits []*model.Commit) string {
	var lines []string

	for _, a := range artifacts {
		if a.New {
			lines = append(lines, fmt.Sprintf("- New artifact: `%s`", a.Name))
		}
	}

	if previous != nil {
		lines = append(lines, format.heading)

		for _, c := range commits {
			lines = append(lines, formatCommit(c, format.fullMessage))
		}
		if len(commits) == 0 {
			lines = append(lines, types.EmptyChangelog)
		}
	}

	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatCommit(c *model.Commit, fullMessage bool) string {
	message := c.Subject()
	if fullMessage {
		message = strings.TrimSpace(c.Message)
	}

	var author string
	switch {
	case c.AuthorLogin != "":
		author = fmt.Sprintf("**[%s](%s)**", c.AuthorLogin, c.AuthorURL)
	case c.AuthorName != "":
		author = fmt.Sprintf("**%s**", c.AuthorName)
	default:
		author = "**unknown**"
	}

	return fmt.Sprintf("- %s\n  \n  By %s", message, author)
}
