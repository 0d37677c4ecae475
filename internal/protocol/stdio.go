package protocol

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	domainErrors "github.com/lucasromero/github-review/internal/errors"
	"github.com/lucasromero/github-review/internal/logger"
	"github.com/lucasromero/github-review/internal/prompts"
	"github.com/lucasromero/github-review/internal/tools"
)

// Request is one invocation received on the input stream, one JSON object
// per line.
type Request struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params Params          `json:"params"`
}

type Params struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// Response carries either a result or an error, never both.
type Response struct {
	ID     json.RawMessage `json:"id"`
	Result interface{}     `json:"result,omitempty"`
	Error  *ErrorPayload   `json:"error,omitempty"`
}

// ErrorPayload is the protocol-visible error shape: a distinguishable kind
// plus a human-readable message, never a stack trace.
type ErrorPayload struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Server is the thin transport layer: it reads invocations, dispatches to
// the registries, and serializes results. All domain behavior lives below
// it, so the core stays testable without a live session.
type Server struct {
	tools   *tools.Registry
	prompts *prompts.Registry
	in      io.Reader
	out     io.Writer
}

func NewServer(toolRegistry *tools.Registry, promptRegistry *prompts.Registry, in io.Reader, out io.Writer) *Server {
	return &Server{
		tools:   toolRegistry,
		prompts: promptRegistry,
		in:      in,
		out:     out,
	}
}

// Serve processes requests until the input stream ends or ctx is cancelled.
// Cancellation abandons the session; no partial result is written for an
// in-flight request.
func (s *Server) Serve(ctx context.Context) error {
	log := logger.FromContext(ctx)

	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := make([]byte, len(scanner.Bytes()))
			copy(line, scanner.Bytes())
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	encoder := json.NewEncoder(s.out)
	for {
		if ctx.Err() != nil {
			log.Info("session cancelled, abandoning in-flight work")
			return ctx.Err()
		}

		select {
		case <-ctx.Done():
			log.Info("session cancelled, abandoning in-flight work")
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if len(line) == 0 {
				continue
			}

			resp := s.handle(ctx, line)
			if err := encoder.Encode(resp); err != nil {
				return fmt.Errorf("error writing response: %w", err)
			}
		}
	}
}

func (s *Server) handle(ctx context.Context, line []byte) Response {
	log := logger.FromContext(ctx)

	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return Response{Error: &ErrorPayload{
			Kind:    string(domainErrors.KindInvalidInput),
			Message: "request is not valid JSON",
		}}
	}

	log.Debug("handling request", "method", req.Method)

	result, err := s.dispatch(ctx, req)
	if err != nil {
		log.Warn("request failed",
			"method", req.Method,
			"kind", string(domainErrors.KindOf(err)))
		return Response{ID: req.ID, Error: toErrorPayload(err)}
	}
	return Response{ID: req.ID, Result: result}
}

func (s *Server) dispatch(ctx context.Context, req Request) (interface{}, error) {
	switch req.Method {
	case "tools/list":
		return map[string]interface{}{"tools": s.tools.List()}, nil
	case "tools/call":
		text, err := s.tools.Call(ctx, req.Params.Name, req.Params.Arguments)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"text": text}, nil
	case "prompts/list":
		return map[string]interface{}{"prompts": s.prompts.List()}, nil
	case "prompts/get":
		payload, err := s.prompts.Get(ctx, req.Params.Name, req.Params.Arguments)
		if err != nil {
			return nil, err
		}
		return payload, nil
	default:
		return nil, domainErrors.NewAppError(domainErrors.KindInvalidInput, "unknown method", nil).
			WithContext("method", req.Method)
	}
}

func toErrorPayload(err error) *ErrorPayload {
	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		return &ErrorPayload{
			Kind:       string(appErr.Kind),
			Message:    appErr.Message,
			Suggestion: appErr.Suggestion,
		}
	}
	return &ErrorPayload{
		Kind:    string(domainErrors.KindUpstream),
		Message: err.Error(),
	}
}
