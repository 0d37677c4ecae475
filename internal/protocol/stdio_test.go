package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	domainErrors "github.com/lucasromero/github-review/internal/errors"
	"github.com/lucasromero/github-review/internal/i18n"
	"github.com/lucasromero/github-review/internal/models"
	"github.com/lucasromero/github-review/internal/prompts"
	"github.com/lucasromero/github-review/internal/render"
	"github.com/lucasromero/github-review/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService serves canned PR data without touching the network.
type stubService struct {
	summary models.PullRequestSummary
	err     error
}

func (s *stubService) BuildBundle(_ context.Context, ref models.PullRequestRef) (models.PullRequestBundle, error) {
	if s.err != nil {
		return models.PullRequestBundle{}, s.err
	}
	return models.PullRequestBundle{
		Summary:  s.summary,
		Files:    []models.FileChange{},
		Comments: []models.ReviewComment{},
		Reviews:  []models.Review{},
	}, nil
}

func (s *stubService) SummarizeOnly(_ context.Context, ref models.PullRequestRef) (models.PullRequestSummary, error) {
	if s.err != nil {
		return models.PullRequestSummary{}, s.err
	}
	return s.summary, nil
}

func (s *stubService) CommentsOnly(_ context.Context, ref models.PullRequestRef) ([]models.ReviewComment, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	return []models.ReviewComment{}, false, nil
}

func (s *stubService) ListMyPullRequests(_ context.Context) (models.MyPullRequests, error) {
	if s.err != nil {
		return models.MyPullRequests{}, s.err
	}
	return models.MyPullRequests{
		Authored:        []models.PullRequestListItem{{Ref: s.summary.Ref, Title: s.summary.Title, Author: s.summary.Author}},
		ReviewRequested: []models.PullRequestListItem{},
	}, nil
}

func newTestServer(t *testing.T, svc *stubService, in string) (*Server, *bytes.Buffer) {
	return newTestServerWithReader(t, svc, strings.NewReader(in))
}

func newTestServerWithReader(t *testing.T, svc *stubService, in io.Reader) (*Server, *bytes.Buffer) {
	t.Helper()

	trans, err := i18n.NewTranslations("en", t.TempDir())
	require.NoError(t, err)
	renderer := render.NewRenderer(trans)

	toolRegistry, err := tools.NewDefaultRegistry(svc, renderer, trans)
	require.NoError(t, err)
	promptRegistry, err := prompts.NewDefaultRegistry(svc, renderer, trans)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return NewServer(toolRegistry, promptRegistry, in, out), out
}

// repeatingReader serves the same line forever, like a peer that never
// stops sending.
type repeatingReader struct {
	line string
}

func (r *repeatingReader) Read(p []byte) (int, error) {
	return copy(p, r.line), nil
}

func decodeResponses(t *testing.T, out *bytes.Buffer) []Response {
	t.Helper()

	var responses []Response
	decoder := json.NewDecoder(out)
	for decoder.More() {
		var resp Response
		require.NoError(t, decoder.Decode(&resp))
		responses = append(responses, resp)
	}
	return responses
}

func TestServer_Serve(t *testing.T) {
	summary := models.PullRequestSummary{
		Ref:    models.PullRequestRef{Owner: "acme", Repo: "widgets", Number: 42},
		Title:  "Fix crash",
		Author: "octocat",
		State:  models.PRStateOpen,
	}

	t.Run("should list tools and prompts", func(t *testing.T) {
		server, out := newTestServer(t, &stubService{summary: summary},
			`{"id":1,"method":"tools/list"}`+"\n"+`{"id":2,"method":"prompts/list"}`+"\n")

		require.NoError(t, server.Serve(context.Background()))

		responses := decodeResponses(t, out)
		require.Len(t, responses, 2)
		assert.Nil(t, responses[0].Error)
		assert.Nil(t, responses[1].Error)

		toolsResult := responses[0].Result.(map[string]interface{})
		assert.Len(t, toolsResult["tools"], 4)
		promptsResult := responses[1].Result.(map[string]interface{})
		assert.Len(t, promptsResult["prompts"], 2)
	})

	t.Run("should serve a tool call end to end", func(t *testing.T) {
		server, out := newTestServer(t, &stubService{summary: summary},
			`{"id":7,"method":"tools/call","params":{"name":"get_pr_summary","arguments":{"pr":"https://github.com/acme/widgets/pull/42"}}}`+"\n")

		require.NoError(t, server.Serve(context.Background()))

		responses := decodeResponses(t, out)
		require.Len(t, responses, 1)
		require.Nil(t, responses[0].Error)

		result := responses[0].Result.(map[string]interface{})
		text := result["text"].(string)
		assert.Contains(t, text, "Fix crash")
		assert.Contains(t, text, "octocat")
	})

	t.Run("should serve a prompt end to end", func(t *testing.T) {
		server, out := newTestServer(t, &stubService{summary: summary},
			`{"id":8,"method":"prompts/get","params":{"name":"summarize-pr","arguments":{"pr":"acme/widgets#42"}}}`+"\n")

		require.NoError(t, server.Serve(context.Background()))

		responses := decodeResponses(t, out)
		require.Len(t, responses, 1)
		require.Nil(t, responses[0].Error)
	})

	t.Run("should report the error kind, not a stack trace", func(t *testing.T) {
		svc := &stubService{err: domainErrors.ErrTokenInvalid}
		server, out := newTestServer(t, svc,
			`{"id":9,"method":"tools/call","params":{"name":"get_pr_summary","arguments":{"pr":"acme/widgets#42"}}}`+"\n")

		require.NoError(t, server.Serve(context.Background()))

		responses := decodeResponses(t, out)
		require.Len(t, responses, 1)
		require.NotNil(t, responses[0].Error)
		assert.Nil(t, responses[0].Result)
		assert.Equal(t, string(domainErrors.KindUnauthorized), responses[0].Error.Kind)
		assert.Equal(t, "GitHub token is invalid or expired", responses[0].Error.Message)
		assert.NotEmpty(t, responses[0].Error.Suggestion)
	})

	t.Run("should serve the discovery tool end to end", func(t *testing.T) {
		server, out := newTestServer(t, &stubService{summary: summary},
			`{"id":13,"method":"tools/call","params":{"name":"list_my_pull_requests"}}`+"\n")

		require.NoError(t, server.Serve(context.Background()))

		responses := decodeResponses(t, out)
		require.Len(t, responses, 1)
		require.Nil(t, responses[0].Error)

		result := responses[0].Result.(map[string]interface{})
		text := result["text"].(string)
		assert.Contains(t, text, "## Authored (1)")
		assert.Contains(t, text, "acme/widgets#42")
	})

	t.Run("should reject an unknown method", func(t *testing.T) {
		server, out := newTestServer(t, &stubService{summary: summary},
			`{"id":10,"method":"tools/describe"}`+"\n")

		require.NoError(t, server.Serve(context.Background()))

		responses := decodeResponses(t, out)
		require.Len(t, responses, 1)
		require.NotNil(t, responses[0].Error)
		assert.Equal(t, string(domainErrors.KindInvalidInput), responses[0].Error.Kind)
	})

	t.Run("should reject invalid JSON without dying", func(t *testing.T) {
		server, out := newTestServer(t, &stubService{summary: summary},
			"not json\n"+`{"id":11,"method":"tools/list"}`+"\n")

		require.NoError(t, server.Serve(context.Background()))

		responses := decodeResponses(t, out)
		require.Len(t, responses, 2)
		require.NotNil(t, responses[0].Error)
		assert.Equal(t, string(domainErrors.KindInvalidInput), responses[0].Error.Kind)
		assert.Nil(t, responses[1].Error)
	})

	t.Run("should skip blank lines", func(t *testing.T) {
		server, out := newTestServer(t, &stubService{summary: summary},
			"\n\n"+`{"id":12,"method":"tools/list"}`+"\n")

		require.NoError(t, server.Serve(context.Background()))

		responses := decodeResponses(t, out)
		require.Len(t, responses, 1)
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		server, _ := newTestServer(t, &stubService{summary: summary}, "")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := server.Serve(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("should stop promptly even when input keeps arriving", func(t *testing.T) {
		in := &repeatingReader{line: `{"id":1,"method":"tools/list"}` + "\n"}
		server, _ := newTestServerWithReader(t, &stubService{summary: summary}, in)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		done := make(chan error, 1)
		go func() { done <- server.Serve(ctx) }()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("server did not stop after cancellation")
		}
	})
}
