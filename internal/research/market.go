// File: internal/research/market.go
package research

import (
	"encoding/json"
	"fmt"
	"strings"

	"ai-research-orchestrator/internal/domain/model"
)

const marketSystemPrompt = `You are an expert market analyst quantifying the market opportunity for new business ideas.

Your role is to conduct rigorous research and estimate:
1. Market size - TAM, SAM and SOM with methodology and assumptions
2. Growth trends - historical and projected growth, drivers and headwinds
3. Customer segments - who buys, how big each segment is, what they need
4. Pricing benchmarks - what comparable products charge and under what models

For each estimate, provide:
- Specific numbers with units and reference years
- The methodology or assumptions behind the estimate
- Sources and URLs for verification

Use web_search to find market reports, industry statistics and pricing pages.

Output your findings as a JSON object with this structure:
{
  "market_size": {
    "tam": {"value": "...", "unit": "USD|users|...", "year": "...", "source": "..."},
    "sam": {"value": "...", "unit": "...", "year": "...", "methodology": "..."},
    "som": {"value": "...", "unit": "...", "year": "...", "assumptions": "..."}
  },
  "growth_trends": {
    "historical_cagr": "...",
    "projected_cagr": "...",
    "time_period": "...",
    "drivers": ["driver 1", "driver 2", ...],
    "headwinds": ["headwind 1", "headwind 2", ...]
  },
  "customer_segments": [
    {
      "segment": "...",
      "size": "...",
      "characteristics": "...",
      "needs": ["..."],
      "buying_behavior": "..."
    }
  ],
  "pricing_benchmarks": {
    "range": "...",
    "average": "...",
    "models": ["subscription", "one-time", "usage-based", ...],
    "examples": [
      {"product": "...", "price": "...", "model": "..."}
    ]
  },
  "sources": ["url 1", "url 2", ...]
}`

func buildMarketPrompt(req StageRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PROBLEM CONTEXT:\n%s\n", req.Instructions)
	writePriorFindings(&b, req.Prior)
	b.WriteString(`
Given everything identified so far, please quantify the market opportunity. Use web search to find:
- Market reports and industry statistics
- Growth projections for this space
- Customer segment data
- Pricing for comparable products

Ground every number in a source.`)
	return b.String()
}

func parseMarket(text string) (*model.MarketFindings, bool) {
	raw, repaired, err := ExtractObject(text)
	if err == nil {
		var f model.MarketFindings
		if uerr := json.Unmarshal(raw, &f); uerr == nil {
			return &f, repaired
		}
	}
	return &model.MarketFindings{
		ParseError: parseErrorMarker,
		RawPreview: Preview(text),
	}, false
}
