package models

import (
	"regexp"
	"strconv"
	"time"

	domainErrors "github.com/lucasromero/github-review/internal/errors"
	"github.com/lucasromero/github-review/internal/regex"
)

// PRState is the lifecycle state of a pull request as reported by GitHub,
// with "merged" folded in as its own state.
type PRState string

const (
	PRStateOpen   PRState = "open"
	PRStateClosed PRState = "closed"
	PRStateMerged PRState = "merged"
)

// ReviewRole is the relation between the authenticated user and a listed PR.
type ReviewRole string

const (
	RoleAuthor          ReviewRole = "author"
	RoleReviewRequested ReviewRole = "review-requested"
)

type (
	// PullRequestRef identifies a single pull request. It is parsed once at
	// the start of every operation and never mutated afterwards.
	PullRequestRef struct {
		Owner  string
		Repo   string
		Number int
	}

	// PullRequestSummary is the lightweight metadata view of a PR.
	PullRequestSummary struct {
		Ref          PullRequestRef
		Title        string
		Body         string
		Author       string
		State        PRState
		Draft        bool
		Mergeable    *bool
		BaseBranch   string
		HeadBranch   string
		CreatedAt    time.Time
		UpdatedAt    time.Time
		Additions    int
		Deletions    int
		ChangedFiles int
	}

	// FileChange describes one changed file in a PR. Patch may be empty when
	// the upstream API truncates diffs for very large files.
	FileChange struct {
		Path      string
		Status    string
		Additions int
		Deletions int
		Patch     string
	}

	// ReviewComment is an inline or top-level review comment.
	ReviewComment struct {
		Author    string
		Body      string
		Path      string
		Line      int
		CreatedAt time.Time
	}

	// Review is a submitted review with its decision state.
	Review struct {
		Author      string
		State       string
		Body        string
		SubmittedAt time.Time
	}

	// PullRequestListItem is one entry in the discovery listing of the
	// caller's open pull requests.
	PullRequestListItem struct {
		Ref       PullRequestRef
		Title     string
		Author    string
		Role      ReviewRole
		UpdatedAt time.Time
	}

	// MyPullRequests groups the caller's recent open PRs by the reason they
	// appear: authored by the caller, or awaiting the caller's review. The
	// Truncated flags follow the same page-cap contract as the bundle lists.
	MyPullRequests struct {
		Authored                 []PullRequestListItem
		ReviewRequested          []PullRequestListItem
		AuthoredTruncated        bool
		ReviewRequestedTruncated bool
	}

	// PullRequestBundle is the aggregated view of one PR for a single
	// invocation. The Truncated flags mark list fetches that hit the
	// configured page cap; a truncated sequence is still a valid result.
	PullRequestBundle struct {
		Summary           PullRequestSummary
		Files             []FileChange
		Comments          []ReviewComment
		Reviews           []Review
		FilesTruncated    bool
		CommentsTruncated bool
		ReviewsTruncated  bool
	}
)

func (r PullRequestRef) String() string {
	return r.Owner + "/" + r.Repo + "#" + strconv.Itoa(r.Number)
}

// ParseRef parses a GitHub PR URL (https://github.com/owner/repo/pull/123)
// or an owner/repo#123 (also owner/repo/123) triple into a PullRequestRef.
func ParseRef(input string) (PullRequestRef, error) {
	for _, re := range []*regexp.Regexp{regex.PullRequestURL, regex.PullRequestTriple} {
		matches := re.FindStringSubmatch(input)
		if len(matches) != 4 {
			continue
		}

		number, err := strconv.Atoi(matches[3])
		if err != nil || number <= 0 {
			break
		}

		return PullRequestRef{
			Owner:  matches[1],
			Repo:   matches[2],
			Number: number,
		}, nil
	}

	return PullRequestRef{}, domainErrors.ErrInvalidPRRef.WithContext("input", input)
}
