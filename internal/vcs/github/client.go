package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v80/github"
	"github.com/lucasromero/github-review/internal/config"
	domainErrors "github.com/lucasromero/github-review/internal/errors"
	"github.com/lucasromero/github-review/internal/logger"
	"github.com/lucasromero/github-review/internal/models"
	"github.com/lucasromero/github-review/internal/vcs"
	"golang.org/x/oauth2"
)

var _ vcs.Client = (*GitHubClient)(nil)

// PullRequestsService mirrors the go-github methods this client needs, so
// tests can substitute mocks.
type PullRequestsService interface {
	Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error)
	ListFiles(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.CommitFile, *github.Response, error)
	ListComments(ctx context.Context, owner, repo string, number int, opts *github.PullRequestListCommentsOptions) ([]*github.PullRequestComment, *github.Response, error)
	ListReviews(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.PullRequestReview, *github.Response, error)
}

// SearchService mirrors the go-github search method backing PR discovery.
type SearchService interface {
	Issues(ctx context.Context, query string, opts *github.SearchOptions) (*github.IssuesSearchResult, *github.Response, error)
}

type GitHubClient struct {
	prService     PullRequestsService
	searchService SearchService
	maxPages      int
	perPage       int
}

// NewGitHubClient builds a client authenticated with the given token. The
// token is injected once here; nothing below this constructor reads the
// environment.
func NewGitHubClient(token string, cfg *config.Config) (*GitHubClient, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = cfg.RequestTimeout()

	client := github.NewClient(httpClient)
	if cfg.APIBaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(cfg.APIBaseURL, cfg.APIBaseURL)
		if err != nil {
			return nil, domainErrors.NewAppError(domainErrors.KindConfiguration, "invalid API base URL", err).
				WithContext("api_base_url", cfg.APIBaseURL)
		}
	}

	return &GitHubClient{
		prService:     client.PullRequests,
		searchService: client.Search,
		maxPages:      cfg.MaxPages,
		perPage:       cfg.PerPage,
	}, nil
}

func NewGitHubClientWithServices(prService PullRequestsService, searchService SearchService, maxPages, perPage int) *GitHubClient {
	return &GitHubClient{
		prService:     prService,
		searchService: searchService,
		maxPages:      maxPages,
		perPage:       perPage,
	}
}

// FetchSummary gets the metadata view of a PR.
func (ghc *GitHubClient) FetchSummary(ctx context.Context, ref models.PullRequestRef) (models.PullRequestSummary, error) {
	log := logger.FromContext(ctx)

	log.Debug("fetching pull request summary", "pr", ref.String())

	pr, resp, err := ghc.prService.Get(ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		log.Error("failed to fetch pull request", "pr", ref.String(), "error", err)
		return models.PullRequestSummary{}, ghc.mapError(resp, err, ref.String(), "get PR")
	}

	if pr == nil || pr.Number == nil || pr.State == nil || pr.Title == nil || pr.User == nil {
		return models.PullRequestSummary{}, domainErrors.ErrMalformedResponse.
			WithContext("operation", "get PR").
			WithContext("subject", ref.String())
	}

	summary := models.PullRequestSummary{
		Ref:          ref,
		Title:        pr.GetTitle(),
		Body:         pr.GetBody(),
		Author:       pr.GetUser().GetLogin(),
		State:        prState(pr),
		Draft:        pr.GetDraft(),
		Mergeable:    pr.Mergeable,
		BaseBranch:   pr.GetBase().GetRef(),
		HeadBranch:   pr.GetHead().GetRef(),
		CreatedAt:    pr.GetCreatedAt().Time,
		UpdatedAt:    pr.GetUpdatedAt().Time,
		Additions:    pr.GetAdditions(),
		Deletions:    pr.GetDeletions(),
		ChangedFiles: pr.GetChangedFiles(),
	}

	log.Debug("pull request summary fetched",
		"pr", ref.String(),
		"state", string(summary.State),
		"changed_files", summary.ChangedFiles)

	return summary, nil
}

// FetchFiles lists the changed files of a PR in upstream order, following
// pagination up to the configured page cap. The second return value reports
// whether the cap truncated the list.
func (ghc *GitHubClient) FetchFiles(ctx context.Context, ref models.PullRequestRef) ([]models.FileChange, bool, error) {
	opts := &github.ListOptions{PerPage: ghc.perPage}

	files := make([]models.FileChange, 0)
	truncated, err := ghc.paginate(ctx, ref.String(), "list PR files", func() (*github.Response, error) {
		page, resp, err := ghc.prService.ListFiles(ctx, ref.Owner, ref.Repo, ref.Number, opts)
		if err != nil {
			return resp, err
		}
		for _, f := range page {
			files = append(files, models.FileChange{
				Path:      f.GetFilename(),
				Status:    f.GetStatus(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
				Patch:     f.GetPatch(),
			})
		}
		if resp != nil {
			opts.Page = resp.NextPage
		}
		return resp, nil
	})
	if err != nil {
		return nil, false, err
	}
	return files, truncated, nil
}

// FetchComments lists the review comments of a PR in creation order.
func (ghc *GitHubClient) FetchComments(ctx context.Context, ref models.PullRequestRef) ([]models.ReviewComment, bool, error) {
	opts := &github.PullRequestListCommentsOptions{
		Sort:        "created",
		Direction:   "asc",
		ListOptions: github.ListOptions{PerPage: ghc.perPage},
	}

	comments := make([]models.ReviewComment, 0)
	truncated, err := ghc.paginate(ctx, ref.String(), "list PR comments", func() (*github.Response, error) {
		page, resp, err := ghc.prService.ListComments(ctx, ref.Owner, ref.Repo, ref.Number, opts)
		if err != nil {
			return resp, err
		}
		for _, c := range page {
			comments = append(comments, models.ReviewComment{
				Author:    c.GetUser().GetLogin(),
				Body:      c.GetBody(),
				Path:      c.GetPath(),
				Line:      c.GetLine(),
				CreatedAt: c.GetCreatedAt().Time,
			})
		}
		if resp != nil {
			opts.Page = resp.NextPage
		}
		return resp, nil
	})
	if err != nil {
		return nil, false, err
	}
	return comments, truncated, nil
}

// FetchReviews lists the submitted reviews of a PR in submission order.
func (ghc *GitHubClient) FetchReviews(ctx context.Context, ref models.PullRequestRef) ([]models.Review, bool, error) {
	opts := &github.ListOptions{PerPage: ghc.perPage}

	reviews := make([]models.Review, 0)
	truncated, err := ghc.paginate(ctx, ref.String(), "list PR reviews", func() (*github.Response, error) {
		page, resp, err := ghc.prService.ListReviews(ctx, ref.Owner, ref.Repo, ref.Number, opts)
		if err != nil {
			return resp, err
		}
		for _, r := range page {
			reviews = append(reviews, models.Review{
				Author:      r.GetUser().GetLogin(),
				State:       strings.ToLower(r.GetState()),
				Body:        r.GetBody(),
				SubmittedAt: r.GetSubmittedAt().Time,
			})
		}
		if resp != nil {
			opts.Page = resp.NextPage
		}
		return resp, nil
	})
	if err != nil {
		return nil, false, err
	}
	return reviews, truncated, nil
}

// SearchMyPullRequests lists the authenticated user's open PRs for one role
// via issue search, most recently updated first. Entries whose URL does not
// point at a pull request are skipped.
func (ghc *GitHubClient) SearchMyPullRequests(ctx context.Context, role models.ReviewRole) ([]models.PullRequestListItem, bool, error) {
	log := logger.FromContext(ctx)

	qualifier := "author"
	if role == models.RoleReviewRequested {
		qualifier = "review-requested"
	}
	query := fmt.Sprintf("is:pr is:open %s:@me", qualifier)

	log.Debug("searching pull requests", "query", query)

	opts := &github.SearchOptions{
		Sort:        "updated",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: ghc.perPage},
	}

	items := make([]models.PullRequestListItem, 0)
	truncated, err := ghc.paginate(ctx, query, "search PRs", func() (*github.Response, error) {
		result, resp, err := ghc.searchService.Issues(ctx, query, opts)
		if err != nil {
			return resp, err
		}
		for _, issue := range result.Issues {
			ref, err := models.ParseRef(issue.GetHTMLURL())
			if err != nil {
				log.Warn("skipping search result without a PR URL", "url", issue.GetHTMLURL())
				continue
			}
			items = append(items, models.PullRequestListItem{
				Ref:       ref,
				Title:     issue.GetTitle(),
				Author:    issue.GetUser().GetLogin(),
				Role:      role,
				UpdatedAt: issue.GetUpdatedAt().Time,
			})
		}
		if resp != nil {
			opts.Page = resp.NextPage
		}
		return resp, nil
	})
	if err != nil {
		return nil, false, err
	}
	return items, truncated, nil
}

// paginate runs fetchPage until the upstream reports no next page or the
// page cap is hit. Hitting the cap is reported as truncation, not an error.
func (ghc *GitHubClient) paginate(ctx context.Context, subject, op string, fetchPage func() (*github.Response, error)) (bool, error) {
	log := logger.FromContext(ctx)

	for page := 1; ; page++ {
		resp, err := fetchPage()
		if err != nil {
			log.Error("failed to fetch page", "subject", subject, "operation", op, "page", page, "error", err)
			return false, ghc.mapError(resp, err, subject, op)
		}

		if resp == nil || resp.NextPage == 0 {
			return false, nil
		}
		if page >= ghc.maxPages {
			log.Warn("page cap reached, truncating results",
				"subject", subject,
				"operation", op,
				"pages", page)
			return true, nil
		}
	}
}

// mapError translates a go-github failure into the most specific domain
// error the response allows.
func (ghc *GitHubClient) mapError(resp *github.Response, err error, subject, op string) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return domainErrors.ErrRateLimited.WithError(err).
			WithContext("operation", op).
			WithContext("subject", subject).
			WithContext("retry_after", time.Until(rateErr.Rate.Reset.Time).Round(time.Second).String())
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		retryAfter := ""
		if abuseErr.RetryAfter != nil {
			retryAfter = abuseErr.RetryAfter.String()
		}
		return domainErrors.ErrRateLimited.WithError(err).
			WithContext("operation", op).
			WithContext("subject", subject).
			WithContext("retry_after", retryAfter)
	}

	if resp != nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return domainErrors.ErrTokenInvalid.WithError(err).
				WithContext("operation", op)
		case http.StatusNotFound, http.StatusGone, http.StatusForbidden:
			// Private repositories the credential cannot see surface as 404;
			// a plain 403 is the same inaccessibility.
			return domainErrors.ErrPullRequestNotFound.WithError(err).
				WithContext("operation", op).
				WithContext("subject", subject)
		case http.StatusTooManyRequests:
			return domainErrors.ErrRateLimited.WithError(err).
				WithContext("operation", op).
				WithContext("subject", subject).
				WithContext("retry_after", resp.Header.Get("Retry-After"))
		}
	}

	return domainErrors.ErrUpstream.WithError(err).
		WithContext("operation", op).
		WithContext("subject", subject)
}

func prState(pr *github.PullRequest) models.PRState {
	if pr.GetMerged() || pr.MergedAt != nil {
		return models.PRStateMerged
	}
	if pr.GetState() == "closed" {
		return models.PRStateClosed
	}
	return models.PRStateOpen
}
