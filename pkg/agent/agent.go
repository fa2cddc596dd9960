// Package agent drives a chat model through rounds of tool calling until it
// produces final text. Tool failures are fed back to the model as data; only
// transport failures, cancellation and the round bound abort a session.
package agent

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// ErrLoopExceeded is returned when the model keeps requesting tools past the
// configured round bound. The loop has no intrinsic termination guarantee, so
// the bound is mandatory.
var ErrLoopExceeded = errors.New("tool-calling loop exceeded maximum rounds")

var (
	sessionRounds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "agent_session_rounds",
			Help:    "Model rounds taken per agent session",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
	)
	toolInvocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_tool_invocations_total",
			Help: "Tool handler invocations by tool name and outcome",
		},
		[]string{"tool", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(sessionRounds)
	prometheus.MustRegister(toolInvocations)
}

// Handler executes one tool invocation. Arguments arrive as the decoded JSON
// mapping supplied by the model. A handler that cannot satisfy the request
// returns a result carrying an "error" key instead of failing the session.
type Handler func(ctx context.Context, args map[string]any) map[string]any

// Tool couples a function declaration exposed to the model with its handler.
type Tool struct {
	Name        string
	Description string
	Parameters  json.RawMessage
	Handler     Handler
}

// ErrorResult builds the conventional error payload handlers return when a
// request cannot be satisfied.
func ErrorResult(format string, args ...any) map[string]any {
	return map[string]any{"error": errors.Errorf(format, args...).Error()}
}

// ChatCompleter is the slice of the OpenAI-compatible client the session
// needs. *openai.Client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

const defaultMaxRounds = 8

// Session runs one tool-calling conversation. History is accumulated for the
// lifetime of the session and discarded with it; sessions are not reusable
// across requests.
type Session struct {
	client    ChatCompleter
	model     string
	maxRounds int
	tools     []Tool
	system    string
	logger    *logrus.Logger
	history   []openai.ChatCompletionMessage
}

// Option configures a Session.
type Option func(*Session)

// WithMaxRounds overrides the default bound on model rounds.
func WithMaxRounds(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxRounds = n
		}
	}
}

// WithSystemPrompt seeds the session with a system message.
func WithSystemPrompt(prompt string) Option {
	return func(s *Session) { s.system = prompt }
}

// WithLogger replaces the session logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// NewSession builds a session over the given client, model and tool catalog.
func NewSession(client ChatCompleter, model string, tools []Tool, opts ...Option) *Session {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	s := &Session{
		client:    client,
		model:     model,
		maxRounds: defaultMaxRounds,
		tools:     tools,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the session: it sends the prompt, dispatches every tool batch
// the model requests, and returns the first model response that carries no
// tool calls. ctx is honored before each model call and each tool dispatch.
func (s *Session) Run(ctx context.Context, prompt string) (string, error) {
	if s.system != "" {
		s.history = append(s.history, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: s.system,
		})
	}
	s.history = append(s.history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	defs := make([]openai.Tool, len(s.tools))
	for i, t := range s.tools {
		defs[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		}
	}

	for round := 1; round <= s.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    s.model,
			Messages: s.history,
			Tools:    defs,
		})
		if err != nil {
			return "", errors.Wrap(err, "model round failed")
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("model returned no choices")
		}

		msg := resp.Choices[0].Message
		s.history = append(s.history, msg)

		if len(msg.ToolCalls) == 0 {
			sessionRounds.Observe(float64(round))
			return msg.Content, nil
		}

		s.logger.WithFields(logrus.Fields{
			"round": round,
			"calls": len(msg.ToolCalls),
		}).Debug("executing tool batch")

		// The whole batch is executed before the next model round; order
		// within the batch is not significant.
		for _, call := range msg.ToolCalls {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			result := s.dispatch(ctx, call)
			payload, err := json.Marshal(result)
			if err != nil {
				payload = []byte(`{"error":"unencodable tool result"}`)
			}
			s.history = append(s.history, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    string(payload),
				ToolCallID: call.ID,
			})
		}
	}

	return "", ErrLoopExceeded
}

func (s *Session) dispatch(ctx context.Context, call openai.ToolCall) map[string]any {
	tool := s.lookup(call.Function.Name)
	if tool == nil {
		toolInvocations.WithLabelValues(call.Function.Name, "unknown").Inc()
		return ErrorResult("unknown tool %q", call.Function.Name)
	}

	args := map[string]any{}
	if raw := call.Function.Arguments; raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			toolInvocations.WithLabelValues(tool.Name, "bad_args").Inc()
			return ErrorResult("invalid arguments for %s: %v", tool.Name, err)
		}
	}

	result := tool.Handler(ctx, args)
	outcome := "ok"
	if _, failed := result["error"]; failed {
		outcome = "error"
	}
	toolInvocations.WithLabelValues(tool.Name, outcome).Inc()
	return result
}

func (s *Session) lookup(name string) *Tool {
	for i := range s.tools {
		if s.tools[i].Name == name {
			return &s.tools[i]
		}
	}
	return nil
}
