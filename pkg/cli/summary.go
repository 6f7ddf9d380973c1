package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/herald/pkg/domain/model"
)

func printSummary(w io.Writer, result *model.PublishResult) {
	title := color.New(color.Bold)
	added := color.New(color.FgGreen)
	faint := color.New(color.Faint)

	_, _ = title.Fprintf(w, "%s %s\n", result.Release.Repository.FullName(), result.Release.TagName)
	if result.DryRun {
		_, _ = color.New(color.FgYellow).Fprintln(w, "(dry run, nothing was uploaded)")
	}

	for _, a := range result.Artifacts {
		if a.New {
			_, _ = added.Fprintf(w, "  + %s", a.Name)
		} else {
			_, _ = fmt.Fprintf(w, "    %s", a.Name)
		}
		_, _ = faint.Fprintf(w, " (%d bytes, %s)\n", a.Size, a.ContentType)
	}

	if result.Previous != nil {
		_, _ = fmt.Fprintf(w, "%d commit(s) since %s\n", len(result.Commits), result.Previous.TagName)
	}

	if result.DryRun {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprint(w, result.Body)
	}
}
