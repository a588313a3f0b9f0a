// File: internal/research/competitor.go
package research

import (
	"encoding/json"
	"fmt"
	"strings"

	"ai-research-orchestrator/internal/domain/model"
)

const competitorSystemPrompt = `You are an expert competitive intelligence analyst mapping the competitive landscape for new business ideas.

Your role is to conduct comprehensive research and identify:
1. Direct competitors - products solving the same problem for the same customers
2. Indirect competitors - substitutes and alternatives customers use instead
3. Market structure - how concentrated or fragmented the space is
4. Barriers to entry - what makes this market hard to enter
5. White space - underserved segments and unmet needs

For each competitor, provide:
- Name, URL and a short description
- Strengths, weaknesses and market position
- Funding information where available

Use web_search to find competitors, funding announcements and market analyses.

Output your findings as a JSON object with this structure:
{
  "direct_competitors": [
    {
      "name": "...",
      "url": "...",
      "description": "...",
      "strengths": ["..."],
      "weaknesses": ["..."],
      "market_position": "...",
      "funding": "..."
    }
  ],
  "indirect_competitors": [
    {
      "name": "...",
      "type": "substitute|alternative",
      "description": "...",
      "why_competitive": "..."
    }
  ],
  "market_structure": {
    "type": "monopolistic|oligopolistic|fragmented|emerging",
    "description": "...",
    "key_players": ["..."]
  },
  "barriers": [
    {
      "type": "brand|network|technology|regulatory|capital",
      "description": "...",
      "severity": "high|medium|low"
    }
  ],
  "white_space": ["opportunity 1", "opportunity 2", ...],
  "sources": ["url 1", "url 2", ...]
}`

func buildCompetitorPrompt(req StageRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PROBLEM CONTEXT:\n%s\n", req.Instructions)
	writePriorFindings(&b, req.Prior)
	b.WriteString(`
Given the obstacles, solutions and regulatory landscape identified, please map the competitive landscape. Use web search to find:
- Companies solving this problem today
- Substitutes customers settle for
- Recent funding activity in the space
- Segments existing players neglect

Name real companies with sources.`)
	return b.String()
}

func parseCompetitor(text string) (*model.CompetitorFindings, bool) {
	raw, repaired, err := ExtractObject(text)
	if err == nil {
		var f model.CompetitorFindings
		if uerr := json.Unmarshal(raw, &f); uerr == nil {
			return &f, repaired
		}
	}
	return &model.CompetitorFindings{
		ParseError: parseErrorMarker,
		RawPreview: Preview(text),
	}, false
}
