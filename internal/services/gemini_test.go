package services

import (
	"errors"
	"testing"

	"alfredoptarigan/ai-interviewer/internal/agent"
)

func TestClassifyUpstreamError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "http 429", err: errors.New("googleapi: Error 429: rate limited"), want: agent.ErrUpstreamQuota},
		{name: "resource exhausted", err: errors.New("rpc error: code = RESOURCE_EXHAUSTED"), want: agent.ErrUpstreamQuota},
		{name: "quota message", err: errors.New("quota exceeded for this project"), want: agent.ErrUpstreamQuota},
		{name: "http 503", err: errors.New("googleapi: Error 503: service unavailable"), want: agent.ErrUpstreamOverloaded},
		{name: "overloaded message", err: errors.New("the model is overloaded, try again"), want: agent.ErrUpstreamOverloaded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyUpstreamError(tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("classifyUpstreamError(%v) = %v, want %v in chain", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassifyUpstreamErrorPassesThroughUnknown(t *testing.T) {
	plain := errors.New("connection reset by peer")
	got := classifyUpstreamError(plain)

	if !errors.Is(got, plain) {
		t.Errorf("unknown errors should pass through unchanged, got %v", got)
	}
	if errors.Is(got, agent.ErrUpstreamQuota) || errors.Is(got, agent.ErrUpstreamOverloaded) {
		t.Errorf("unknown error misclassified: %v", got)
	}
}

func TestIsRetryable(t *testing.T) {
	overloaded := classifyUpstreamError(errors.New("503 unavailable"))
	quota := classifyUpstreamError(errors.New("429 quota exceeded"))

	if !isRetryable(overloaded) {
		t.Error("overloaded errors should be retryable")
	}
	if isRetryable(quota) {
		t.Error("quota errors must not be retried")
	}
	if isRetryable(errors.New("some other failure")) {
		t.Error("unclassified errors must not be retried")
	}
}
