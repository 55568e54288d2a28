package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lexdraw/analysis"
	"lexdraw/diagram"
)

// Analysis is the outcome of one analyze call.
type Analysis struct {
	Payload analysis.Payload
	// FromAI is false when the payload is the local fallback.
	FromAI bool
}

// Service wraps a Client with the prompts, timeouts and fallbacks lexdraw needs.
// A nil client makes every operation take its local path.
type Service struct {
	client  Client
	timeout time.Duration
	log     *slog.Logger
}

// NewService creates a service. A non-positive timeout uses DefaultTimeout.
func NewService(client Client, timeout time.Duration, log *slog.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{client: client, timeout: timeout, log: log}
}

// Enabled reports whether a client is configured. It does not contact the model.
func (s *Service) Enabled() bool {
	return s != nil && s.client != nil
}

// Analyze asks the model to extract concepts and connections from text.
// It never fails: any transport error, timeout or unparseable reply yields
// the fallback analysis.
func (s *Service) Analyze(ctx context.Context, text string) Analysis {
	reply, err := s.complete(ctx, analyzePrompt(text))
	if err != nil {
		s.log.Warn("AI analysis failed, using fallback", "error", err)
		return Analysis{Payload: analysis.Fallback(text)}
	}

	p, ok := analysis.Analyze(reply, text)
	if !ok {
		s.log.Warn("AI reply is not valid JSON, using fallback", "reply_len", len(reply))
		return Analysis{Payload: p}
	}

	s.log.Debug("AI analysis complete", "concepts", len(p.Concepts), "connections", len(p.Connections), "suggested_type", p.SuggestedType)
	return Analysis{Payload: p, FromAI: true}
}

// AnalyzeAsync runs Analyze on its own goroutine. The channel receives
// exactly one value and is then closed. Cancelling ctx yields the fallback.
func (s *Service) AnalyzeAsync(ctx context.Context, text string) <-chan Analysis {
	out := make(chan Analysis, 1)
	go func() {
		defer close(out)
		out <- s.Analyze(ctx, text)
	}()
	return out
}

// Enhance asks the model to rewrite text into clearer diagram input for the
// given type. The original text is returned on any failure.
func (s *Service) Enhance(ctx context.Context, text string, t diagram.Type) string {
	reply, err := s.complete(ctx, enhancePrompt(text, t))
	if err != nil {
		s.log.Warn("AI enhance failed", "error", err)
		return text
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return text
	}
	return reply
}

// Suggest asks the model which diagram type suits text. Unknown answers and
// failures suggest a hierarchy.
func (s *Service) Suggest(ctx context.Context, text string) diagram.Type {
	reply, err := s.complete(ctx, suggestPrompt(text))
	if err != nil {
		s.log.Warn("AI suggest failed", "error", err)
		return diagram.TypeHierarchy
	}
	return matchType(reply)
}

// Available probes the model with a trivial prompt.
func (s *Service) Available(ctx context.Context) bool {
	if !s.Enabled() {
		return false
	}
	reply, err := s.complete(ctx, probePrompt)
	if err != nil {
		s.log.Debug("AI probe failed", "error", err)
		return false
	}
	return strings.TrimSpace(reply) != ""
}

// complete applies the per-call timeout. Clients that ignore their context
// are abandoned when it ends.
func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	if !s.Enabled() {
		return "", ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type reply struct {
		text string
		err  error
	}
	done := make(chan reply, 1)
	go func() {
		text, err := s.client.Complete(ctx, prompt)
		done <- reply{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("AI request: %w", ctx.Err())
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("AI request: %w", r.err)
		}
		return r.text, nil
	}
}

// matchType picks the known type named earliest in reply.
func matchType(reply string) diagram.Type {
	reply = strings.ToLower(strings.TrimSpace(reply))
	if t, ok := diagram.ParseType(reply); ok {
		return t
	}

	best, bestAt := diagram.TypeHierarchy, -1
	for _, t := range diagram.Types() {
		at := strings.Index(reply, string(t))
		if at >= 0 && (bestAt < 0 || at < bestAt) {
			best, bestAt = t, at
		}
	}
	return best
}
