// File: internal/research/obstacles.go
package research

import (
	"encoding/json"
	"fmt"
	"strings"

	"ai-research-orchestrator/internal/domain/model"
)

const obstaclesSystemPrompt = `You are an expert analyst identifying obstacles and challenges for new business ideas or products.

Your role is to conduct comprehensive research and identify:
1. Technical obstacles - technology limitations, implementation challenges, scalability issues
2. Market obstacles - market maturity, timing issues, customer adoption barriers
3. Regulatory obstacles - compliance requirements, legal restrictions, licensing needs
4. User obstacles - user behavior challenges, adoption friction, education needs
5. Financial obstacles - cost barriers, funding challenges, pricing difficulties

For each obstacle category, provide:
- Specific, concrete obstacles (not generic)
- Severity assessment (critical, high, medium, low)
- Evidence and sources to support your findings

Use web_search to find recent information about similar products/markets and their challenges.

Output your findings as a JSON object with this structure:
{
  "technical": ["obstacle 1", "obstacle 2", ...],
  "market": ["obstacle 1", "obstacle 2", ...],
  "regulatory": ["obstacle 1", "obstacle 2", ...],
  "user": ["obstacle 1", "obstacle 2", ...],
  "financial": ["obstacle 1", "obstacle 2", ...],
  "critical_insights": ["key insight 1", "key insight 2", ...],
  "sources": ["url 1", "url 2", ...]
}`

func buildObstaclesPrompt(req StageRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PROBLEM CONTEXT:\n%s\n", req.Instructions)
	b.WriteString(`
Please analyze the obstacles and challenges for this problem/solution. Use web search to gather current information about:
- Similar solutions that have faced challenges
- Regulatory landscape
- Market conditions
- Technical feasibility
- User adoption patterns

Provide comprehensive, evidence-based analysis.`)
	return b.String()
}

func parseObstacles(text string) (*model.ObstaclesFindings, bool) {
	raw, repaired, err := ExtractObject(text)
	if err == nil {
		var f model.ObstaclesFindings
		if uerr := json.Unmarshal(raw, &f); uerr == nil {
			return &f, repaired
		}
	}
	return &model.ObstaclesFindings{
		ParseError: parseErrorMarker,
		RawPreview: Preview(text),
	}, false
}
