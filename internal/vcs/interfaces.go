package vcs

import (
	"context"

	"github.com/lucasromero/github-review/internal/models"
)

// Client defines the read operations this adapter needs from a code-hosting
// provider. List fetches return a truncation flag alongside the items: true
// means the configured page cap stopped pagination early.
type Client interface {
	// FetchSummary gets the metadata view of a pull request.
	FetchSummary(ctx context.Context, ref models.PullRequestRef) (models.PullRequestSummary, error)
	// FetchFiles lists the changed files in upstream order.
	FetchFiles(ctx context.Context, ref models.PullRequestRef) ([]models.FileChange, bool, error)
	// FetchComments lists review comments in creation order.
	FetchComments(ctx context.Context, ref models.PullRequestRef) ([]models.ReviewComment, bool, error)
	// FetchReviews lists submitted reviews in submission order.
	FetchReviews(ctx context.Context, ref models.PullRequestRef) ([]models.Review, bool, error)
	// SearchMyPullRequests lists the authenticated user's open pull requests
	// for the given role, most recently updated first.
	SearchMyPullRequests(ctx context.Context, role models.ReviewRole) ([]models.PullRequestListItem, bool, error)
}
