package services

import (
	"context"

	"github.com/lucasromero/github-review/internal/logger"
	"github.com/lucasromero/github-review/internal/models"
	"github.com/lucasromero/github-review/internal/vcs"
	"golang.org/x/sync/errgroup"
)

// ReviewService aggregates the independent GitHub fetches into the
// per-invocation views the tools and prompts expose. It performs no retries:
// rate-limit and transient errors propagate to the invoking agent, which is
// better positioned to decide whether to wait and re-invoke.
type ReviewService struct {
	client vcs.Client
}

func NewReviewService(client vcs.Client) *ReviewService {
	return &ReviewService{client: client}
}

// BuildBundle fetches summary, files, comments, and reviews concurrently and
// joins before returning. The four fetches are independent reads of the same
// immutable PR identity, so ordering between them does not matter. If any
// fetch fails the whole bundle fails with that error; truncation by the page
// cap is not a failure.
func (s *ReviewService) BuildBundle(ctx context.Context, ref models.PullRequestRef) (models.PullRequestBundle, error) {
	log := logger.FromContext(ctx)

	log.Info("building pull request bundle", "pr", ref.String())

	var bundle models.PullRequestBundle

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := s.client.FetchSummary(gctx, ref)
		if err != nil {
			return err
		}
		bundle.Summary = summary
		return nil
	})

	g.Go(func() error {
		files, truncated, err := s.client.FetchFiles(gctx, ref)
		if err != nil {
			return err
		}
		bundle.Files = emptyIfNil(files)
		bundle.FilesTruncated = truncated
		return nil
	})

	g.Go(func() error {
		comments, truncated, err := s.client.FetchComments(gctx, ref)
		if err != nil {
			return err
		}
		bundle.Comments = emptyIfNil(comments)
		bundle.CommentsTruncated = truncated
		return nil
	})

	g.Go(func() error {
		reviews, truncated, err := s.client.FetchReviews(gctx, ref)
		if err != nil {
			return err
		}
		bundle.Reviews = emptyIfNil(reviews)
		bundle.ReviewsTruncated = truncated
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("failed to build bundle", "pr", ref.String(), "error", err)
		return models.PullRequestBundle{}, err
	}

	log.Debug("bundle built",
		"pr", ref.String(),
		"files", len(bundle.Files),
		"comments", len(bundle.Comments),
		"reviews", len(bundle.Reviews))

	return bundle, nil
}

// ListMyPullRequests discovers the caller's recent open pull requests:
// the ones they authored and the ones awaiting their review. The two
// searches run concurrently and join before returning; if either fails the
// whole listing fails, matching the bundle semantics.
func (s *ReviewService) ListMyPullRequests(ctx context.Context) (models.MyPullRequests, error) {
	log := logger.FromContext(ctx)

	log.Info("listing caller's open pull requests")

	var list models.MyPullRequests

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, truncated, err := s.client.SearchMyPullRequests(gctx, models.RoleAuthor)
		if err != nil {
			return err
		}
		list.Authored = emptyIfNil(items)
		list.AuthoredTruncated = truncated
		return nil
	})

	g.Go(func() error {
		items, truncated, err := s.client.SearchMyPullRequests(gctx, models.RoleReviewRequested)
		if err != nil {
			return err
		}
		list.ReviewRequested = emptyIfNil(items)
		list.ReviewRequestedTruncated = truncated
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("failed to list pull requests", "error", err)
		return models.MyPullRequests{}, err
	}

	log.Debug("pull requests listed",
		"authored", len(list.Authored),
		"review_requested", len(list.ReviewRequested))

	return list, nil
}

// SummarizeOnly performs the single summary fetch backing the lightweight
// get_pr_summary tool.
func (s *ReviewService) SummarizeOnly(ctx context.Context, ref models.PullRequestRef) (models.PullRequestSummary, error) {
	return s.client.FetchSummary(ctx, ref)
}

// CommentsOnly fetches just the review comments of a PR.
func (s *ReviewService) CommentsOnly(ctx context.Context, ref models.PullRequestRef) ([]models.ReviewComment, bool, error) {
	comments, truncated, err := s.client.FetchComments(ctx, ref)
	if err != nil {
		return nil, false, err
	}
	return emptyIfNil(comments), truncated, nil
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
