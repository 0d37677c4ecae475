package services

import (
	"context"

	"github.com/lucasromero/github-review/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockVCSClient struct {
	mock.Mock
}

func (m *MockVCSClient) FetchSummary(ctx context.Context, ref models.PullRequestRef) (models.PullRequestSummary, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(models.PullRequestSummary), args.Error(1)
}

func (m *MockVCSClient) FetchFiles(ctx context.Context, ref models.PullRequestRef) ([]models.FileChange, bool, error) {
	args := m.Called(ctx, ref)
	var files []models.FileChange
	if args.Get(0) != nil {
		files = args.Get(0).([]models.FileChange)
	}
	return files, args.Bool(1), args.Error(2)
}

func (m *MockVCSClient) FetchComments(ctx context.Context, ref models.PullRequestRef) ([]models.ReviewComment, bool, error) {
	args := m.Called(ctx, ref)
	var comments []models.ReviewComment
	if args.Get(0) != nil {
		comments = args.Get(0).([]models.ReviewComment)
	}
	return comments, args.Bool(1), args.Error(2)
}

func (m *MockVCSClient) SearchMyPullRequests(ctx context.Context, role models.ReviewRole) ([]models.PullRequestListItem, bool, error) {
	args := m.Called(ctx, role)
	var items []models.PullRequestListItem
	if args.Get(0) != nil {
		items = args.Get(0).([]models.PullRequestListItem)
	}
	return items, args.Bool(1), args.Error(2)
}

func (m *MockVCSClient) FetchReviews(ctx context.Context, ref models.PullRequestRef) ([]models.Review, bool, error) {
	args := m.Called(ctx, ref)
	var reviews []models.Review
	if args.Get(0) != nil {
		reviews = args.Get(0).([]models.Review)
	}
	return reviews, args.Bool(1), args.Error(2)
}
