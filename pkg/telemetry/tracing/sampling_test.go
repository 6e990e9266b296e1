package tracing

import (
	"strings"
	"testing"
)

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		ratio    float64
		want     string
		wantErr  bool
	}{
		{"default", "", 0, "AlwaysOnSampler", false},
		{"always", SamplerAlways, 0, "AlwaysOnSampler", false},
		{"never", SamplerNever, 0, "AlwaysOffSampler", false},
		{"ratio", SamplerRatio, 0.25, "TraceIDRatioBased{0.25}", false},
		{"ratio too high", SamplerRatio, 1.5, "", true},
		{"ratio negative", SamplerRatio, -0.1, "", true},
		{"unknown", "sometimes", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler, err := createSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Fatalf("createSampler() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			desc := sampler.Description()
			if !strings.HasPrefix(desc, "ParentBased{") || !strings.Contains(desc, tt.want) {
				t.Errorf("Description() = %q, want ParentBased with %q", desc, tt.want)
			}
		})
	}
}
