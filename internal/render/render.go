package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/lucasromero/github-review/internal/i18n"
	"github.com/lucasromero/github-review/internal/models"
)

// Renderer turns aggregated PR data into structured markdown. Tools and
// prompts share it so PR data has exactly one textual shape.
type Renderer struct {
	trans *i18n.Translations
}

func NewRenderer(trans *i18n.Translations) *Renderer {
	return &Renderer{trans: trans}
}

// Summary renders the metadata view of a PR.
func (r *Renderer) Summary(s models.PullRequestSummary) string {
	var md strings.Builder

	md.WriteString(fmt.Sprintf("# %s: %s\n\n", s.Ref.String(), s.Title))
	md.WriteString(fmt.Sprintf("- **Author:** %s\n", s.Author))

	state := string(s.State)
	if s.Draft {
		state += " (draft)"
	}
	md.WriteString(fmt.Sprintf("- **State:** %s\n", state))
	if s.Mergeable != nil {
		md.WriteString(fmt.Sprintf("- **Mergeable:** %t\n", *s.Mergeable))
	}
	md.WriteString(fmt.Sprintf("- **Branches:** %s ← %s\n", s.BaseBranch, s.HeadBranch))
	md.WriteString(fmt.Sprintf("- **Created:** %s\n", formatTime(s.CreatedAt)))
	md.WriteString(fmt.Sprintf("- **Updated:** %s\n", formatTime(s.UpdatedAt)))
	md.WriteString(fmt.Sprintf("- **Changes:** %d files, +%d/-%d\n", s.ChangedFiles, s.Additions, s.Deletions))

	if s.Body != "" {
		md.WriteString("\n" + strings.TrimRight(s.Body, "\n") + "\n")
	}

	return md.String()
}

// MyPullRequests renders the discovery listing of the caller's open PRs,
// grouped by role.
func (r *Renderer) MyPullRequests(list models.MyPullRequests) string {
	var md strings.Builder

	md.WriteString("# Your open pull requests\n\n")
	md.WriteString(r.listSection("## Authored", list.Authored, list.AuthoredTruncated))
	md.WriteString("\n")
	md.WriteString(r.listSection("## Review requested", list.ReviewRequested, list.ReviewRequestedTruncated))

	return md.String()
}

func (r *Renderer) listSection(heading string, items []models.PullRequestListItem, truncated bool) string {
	var md strings.Builder

	md.WriteString(fmt.Sprintf("%s (%d)\n\n", heading, len(items)))
	if len(items) == 0 {
		md.WriteString("No open pull requests.\n")
		return md.String()
	}

	for _, item := range items {
		md.WriteString(fmt.Sprintf("- **%s**: %s (by %s, updated %s)\n",
			item.Ref.String(), item.Title, item.Author, formatTime(item.UpdatedAt)))
	}

	if truncated {
		md.WriteString(r.truncatedNote(len(items)))
	}

	return md.String()
}

// Bundle renders the full aggregated view of a PR.
func (r *Renderer) Bundle(b models.PullRequestBundle) string {
	var md strings.Builder

	md.WriteString(r.Summary(b.Summary))
	md.WriteString("\n")
	md.WriteString(r.files(b.Files, b.FilesTruncated))
	md.WriteString("\n")
	md.WriteString(r.Comments(b.Comments, b.CommentsTruncated))
	md.WriteString("\n")
	md.WriteString(r.reviews(b.Reviews, b.ReviewsTruncated))

	return md.String()
}

// Comments renders the review comments of a PR in their given order.
func (r *Renderer) Comments(comments []models.ReviewComment, truncated bool) string {
	var md strings.Builder

	md.WriteString(fmt.Sprintf("## Review comments (%d)\n\n", len(comments)))
	if len(comments) == 0 {
		md.WriteString("No review comments.\n")
		return md.String()
	}

	for _, c := range comments {
		location := ""
		if c.Path != "" {
			location = c.Path
			if c.Line > 0 {
				location = fmt.Sprintf("%s:%d", c.Path, c.Line)
			}
			location = fmt.Sprintf(" [%s]", location)
		}
		md.WriteString(fmt.Sprintf("- **%s**%s (%s): %s\n", c.Author, location, formatTime(c.CreatedAt), c.Body))
	}

	if truncated {
		md.WriteString(r.truncatedNote(len(comments)))
	}

	return md.String()
}

func (r *Renderer) files(files []models.FileChange, truncated bool) string {
	var md strings.Builder

	md.WriteString(fmt.Sprintf("## Changed files (%d)\n\n", len(files)))
	if len(files) == 0 {
		md.WriteString("No changed files.\n")
		return md.String()
	}

	for _, f := range files {
		md.WriteString(fmt.Sprintf("### %s (%s, +%d/-%d)\n\n", f.Path, f.Status, f.Additions, f.Deletions))
		if f.Patch != "" {
			md.WriteString(fmt.Sprintf("```diff\n%s\n```\n\n", f.Patch))
		}
	}

	if truncated {
		md.WriteString(r.truncatedNote(len(files)))
	}

	return md.String()
}

func (r *Renderer) reviews(reviews []models.Review, truncated bool) string {
	var md strings.Builder

	md.WriteString(fmt.Sprintf("## Reviews (%d)\n\n", len(reviews)))
	if len(reviews) == 0 {
		md.WriteString("No reviews submitted.\n")
		return md.String()
	}

	for _, rv := range reviews {
		md.WriteString(fmt.Sprintf("- **%s**: %s (%s)", rv.Author, rv.State, formatTime(rv.SubmittedAt)))
		if rv.Body != "" {
			md.WriteString(fmt.Sprintf(": %s", rv.Body))
		}
		md.WriteString("\n")
	}

	if truncated {
		md.WriteString(r.truncatedNote(len(reviews)))
	}

	return md.String()
}

func (r *Renderer) truncatedNote(count int) string {
	return "\n" + r.trans.GetMessage("render.truncated_note", 0, map[string]interface{}{
		"Count": count,
	}) + "\n"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.UTC().Format("2006-01-02 15:04 UTC")
}
