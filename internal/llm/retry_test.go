package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPolicyNext(t *testing.T) {
	tests := []struct {
		name         string
		policy       Policy
		attempt      int
		max          int
		wantDelay    time.Duration
		wantTerminal bool
	}{
		{name: "exponential first", policy: Policy{}, attempt: 1, max: 3, wantDelay: 1 * time.Second},
		{name: "exponential second", policy: Policy{}, attempt: 2, max: 3, wantDelay: 2 * time.Second},
		{name: "exponential custom base", policy: Policy{Base: 100 * time.Millisecond}, attempt: 4, max: 10, wantDelay: 800 * time.Millisecond},
		{name: "exponential capped", policy: Policy{Base: time.Second, Max: 5 * time.Second}, attempt: 8, max: 10, wantDelay: 5 * time.Second},
		{name: "fixed default", policy: Policy{Strategy: StrategyFixed}, attempt: 2, max: 3, wantDelay: 5 * time.Second},
		{name: "fixed custom", policy: Policy{Strategy: StrategyFixed, Base: time.Second}, attempt: 1, max: 3, wantDelay: time.Second},
		{name: "budget spent", policy: Policy{}, attempt: 3, max: 3, wantTerminal: true},
		{name: "single attempt", policy: Policy{Strategy: StrategyFixed}, attempt: 1, max: 1, wantTerminal: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			delay, terminal := tt.policy.Next(tt.attempt, tt.max)
			if terminal != tt.wantTerminal {
				t.Fatalf("terminal = %v, want %v", terminal, tt.wantTerminal)
			}
			if delay != tt.wantDelay {
				t.Fatalf("delay = %v, want %v", delay, tt.wantDelay)
			}
		})
	}
}

func TestSleepContext_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := SleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
