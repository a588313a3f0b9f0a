// File: internal/research/agents.go
package research

import (
	"encoding/json"
	"fmt"
	"strings"
)

const parseErrorMarker = "could not parse structured JSON from response"

// Agent names the chain stages. The five research stages emit JSON findings;
// synthesis emits prose.
type Agent string

const (
	AgentObstacles  Agent = "obstacles"
	AgentSolutions  Agent = "solutions"
	AgentLegal      Agent = "legal"
	AgentCompetitor Agent = "competitor"
	AgentMarket     Agent = "market"
	AgentSynthesis  Agent = "synthesis"
)

// StageRequest is what one stage invocation needs: the original problem
// statement and everything earlier stages produced.
type StageRequest struct {
	Instructions string
	Prior        PriorFindings
}

// PriorFindings threads accumulated stage outputs to later stages. Fields are
// nil for stages that have not run.
type PriorFindings struct {
	Obstacles   any
	Solutions   any
	Legal       any
	Competitors any
	Market      any
}

func writeFindingsSection(b *strings.Builder, label string, v any) {
	if v == nil {
		return
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return
	}
	fmt.Fprintf(b, "\nPREVIOUS FINDINGS - %s:\n%s\n", label, data)
}

func writePriorFindings(b *strings.Builder, prior PriorFindings) {
	writeFindingsSection(b, "OBSTACLES", prior.Obstacles)
	writeFindingsSection(b, "SOLUTIONS", prior.Solutions)
	writeFindingsSection(b, "LEGAL", prior.Legal)
	writeFindingsSection(b, "COMPETITORS", prior.Competitors)
	writeFindingsSection(b, "MARKET", prior.Market)
}
