package model

import (
	"encoding/json"
	"testing"
)

func TestJobTransitions(t *testing.T) {
	cases := []struct {
		from, to JobStatus
		ok       bool
	}{
		{JobStatusCreated, JobStatusInProgress, true},
		{JobStatusCreated, JobStatusCompleted, false},
		{JobStatusCreated, JobStatusFailed, false},
		{JobStatusInProgress, JobStatusCompleted, true},
		{JobStatusInProgress, JobStatusFailed, true},
		{JobStatusInProgress, JobStatusCreated, false},
		{JobStatusCompleted, JobStatusInProgress, false},
		{JobStatusCompleted, JobStatusFailed, false},
		{JobStatusFailed, JobStatusInProgress, false},
		{JobStatusFailed, JobStatusCompleted, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.ok {
			t.Errorf("%s -> %s: got %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}

func TestJobTerminal(t *testing.T) {
	if JobStatusCreated.Terminal() || JobStatusInProgress.Terminal() {
		t.Error("active statuses must not be terminal")
	}
	if !JobStatusCompleted.Terminal() || !JobStatusFailed.Terminal() {
		t.Error("completed and failed must be terminal")
	}
}

func TestNewJobDefaults(t *testing.T) {
	j := NewJob("sess-1", JobTypeResearch, "analyze fintech onboarding", "prior context")
	if j.Status != JobStatusCreated {
		t.Errorf("new job status = %s, want %s", j.Status, JobStatusCreated)
	}
	if j.SessionID != "sess-1" || j.Type != JobTypeResearch {
		t.Error("session or type not carried into job")
	}
	if j.CreatedAt.IsZero() || j.UpdatedAt.IsZero() {
		t.Error("timestamps must be set")
	}
}

func TestResearchResultRoundTrip(t *testing.T) {
	res := ResearchResult{
		Instructions: "evaluate market",
		Findings: ResearchFindings{
			Obstacles: &ObstaclesFindings{
				Technical: []string{"legacy integrations"},
				Sources:   []string{"https://example.com/a"},
			},
			Market: &MarketFindings{
				MarketSize: &MarketSize{
					TAM: &MarketSizeEstimate{Value: "10B", Unit: "USD", Year: "2025"},
				},
			},
		},
		Synthesis: "short synthesis",
	}
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back ResearchResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Findings.Obstacles == nil || back.Findings.Obstacles.Technical[0] != "legacy integrations" {
		t.Error("obstacles findings lost in round trip")
	}
	if back.Findings.Market.MarketSize.TAM.Value != "10B" {
		t.Error("market size lost in round trip")
	}
	if back.Findings.Solutions != nil {
		t.Error("absent stage must stay nil")
	}
}

func TestFallbackFindingsSerialize(t *testing.T) {
	f := ObstaclesFindings{ParseError: "no balanced object found", RawPreview: "garbage..."}
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	if s == "{}" {
		t.Error("fallback fields must serialize")
	}
}
