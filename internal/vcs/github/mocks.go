package github

import (
	"context"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/mock"
)

type MockPullRequestsService struct {
	mock.Mock
}

func (m *MockPullRequestsService) Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error) {
	args := m.Called(ctx, owner, repo, number)
	return prOrNil(args.Get(0)), respOrNil(args.Get(1)), args.Error(2)
}

func (m *MockPullRequestsService) ListFiles(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.CommitFile, *github.Response, error) {
	args := m.Called(ctx, owner, repo, number, opts)
	var files []*github.CommitFile
	if args.Get(0) != nil {
		files = args.Get(0).([]*github.CommitFile)
	}
	return files, respOrNil(args.Get(1)), args.Error(2)
}

func (m *MockPullRequestsService) ListComments(ctx context.Context, owner, repo string, number int, opts *github.PullRequestListCommentsOptions) ([]*github.PullRequestComment, *github.Response, error) {
	args := m.Called(ctx, owner, repo, number, opts)
	var comments []*github.PullRequestComment
	if args.Get(0) != nil {
		comments = args.Get(0).([]*github.PullRequestComment)
	}
	return comments, respOrNil(args.Get(1)), args.Error(2)
}

func (m *MockPullRequestsService) ListReviews(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.PullRequestReview, *github.Response, error) {
	args := m.Called(ctx, owner, repo, number, opts)
	var reviews []*github.PullRequestReview
	if args.Get(0) != nil {
		reviews = args.Get(0).([]*github.PullRequestReview)
	}
	return reviews, respOrNil(args.Get(1)), args.Error(2)
}

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Issues(ctx context.Context, query string, opts *github.SearchOptions) (*github.IssuesSearchResult, *github.Response, error) {
	args := m.Called(ctx, query, opts)
	var result *github.IssuesSearchResult
	if args.Get(0) != nil {
		result = args.Get(0).(*github.IssuesSearchResult)
	}
	return result, respOrNil(args.Get(1)), args.Error(2)
}

func prOrNil(v interface{}) *github.PullRequest {
	if v == nil {
		return nil
	}
	return v.(*github.PullRequest)
}

func respOrNil(v interface{}) *github.Response {
	if v == nil {
		return nil
	}
	return v.(*github.Response)
}
