package tools

import (
	"context"

	"github.com/lucasromero/github-review/internal/i18n"
	"github.com/lucasromero/github-review/internal/models"
	"github.com/lucasromero/github-review/internal/render"
)

// reviewService defines the aggregator methods the tools need.
type reviewService interface {
	BuildBundle(ctx context.Context, ref models.PullRequestRef) (models.PullRequestBundle, error)
	SummarizeOnly(ctx context.Context, ref models.PullRequestRef) (models.PullRequestSummary, error)
	CommentsOnly(ctx context.Context, ref models.PullRequestRef) ([]models.ReviewComment, bool, error)
	ListMyPullRequests(ctx context.Context) (models.MyPullRequests, error)
}

const (
	ToolReviewPullRequest  = "review_pull_request"
	ToolGetPRSummary       = "get_pr_summary"
	ToolGetPRComments      = "get_pr_comments"
	ToolListMyPullRequests = "list_my_pull_requests"
)

// NewDefaultRegistry registers the PR tools backed by the given aggregator.
// All PR data enters through the aggregator path; the tools never call
// GitHub directly.
func NewDefaultRegistry(svc reviewService, renderer *render.Renderer, trans *i18n.Translations) (*Registry, error) {
	registry := NewRegistry()

	prSchema := Schema{
		Type: "object",
		Properties: map[string]Property{
			"pr": {
				Type:        "string",
				Description: trans.GetMessage("tool.arg.pr.description", 0, nil),
			},
		},
		Required: []string{"pr"},
	}

	all := []*Tool{
		{
			Name:        ToolReviewPullRequest,
			Description: trans.GetMessage("tool.review_pull_request.description", 0, nil),
			InputSchema: prSchema,
			Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
				ref, err := parseRefArg(args)
				if err != nil {
					return "", err
				}
				bundle, err := svc.BuildBundle(ctx, ref)
				if err != nil {
					return "", err
				}
				return renderer.Bundle(bundle), nil
			},
		},
		{
			Name:        ToolGetPRSummary,
			Description: trans.GetMessage("tool.get_pr_summary.description", 0, nil),
			InputSchema: prSchema,
			Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
				ref, err := parseRefArg(args)
				if err != nil {
					return "", err
				}
				summary, err := svc.SummarizeOnly(ctx, ref)
				if err != nil {
					return "", err
				}
				return renderer.Summary(summary), nil
			},
		},
		{
			Name:        ToolGetPRComments,
			Description: trans.GetMessage("tool.get_pr_comments.description", 0, nil),
			InputSchema: prSchema,
			Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
				ref, err := parseRefArg(args)
				if err != nil {
					return "", err
				}
				comments, truncated, err := svc.CommentsOnly(ctx, ref)
				if err != nil {
					return "", err
				}
				return renderer.Comments(comments, truncated), nil
			},
		},
		{
			Name:        ToolListMyPullRequests,
			Description: trans.GetMessage("tool.list_my_pull_requests.description", 0, nil),
			InputSchema: Schema{Type: "object", Properties: map[string]Property{}, Required: []string{}},
			Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
				list, err := svc.ListMyPullRequests(ctx)
				if err != nil {
					return "", err
				}
				return renderer.MyPullRequests(list), nil
			},
		},
	}

	for _, tool := range all {
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

func parseRefArg(args map[string]interface{}) (models.PullRequestRef, error) {
	input, _ := args["pr"].(string)
	return models.ParseRef(input)
}
