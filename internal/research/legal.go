// File: internal/research/legal.go
package research

import (
	"encoding/json"
	"fmt"
	"strings"

	"ai-research-orchestrator/internal/domain/model"
)

const legalSystemPrompt = `You are an expert legal and regulatory analyst evaluating compliance requirements for new business ideas.

Your role is to conduct thorough research and identify:
1. Industry regulations - sector-specific rules that apply to this problem space
2. Data protection - privacy laws governing the data this solution would handle
3. Financial regulations - rules triggered if money, payments or credit are involved
4. Regional variations - how requirements differ across key jurisdictions

For each category, provide:
- The specific regulation or law by name
- Which jurisdiction it applies in
- Concrete requirements and an assessment of compliance complexity
- Sources and URLs for verification

Use web_search to find current regulatory information.

Output your findings as a JSON object with this structure:
{
  "industry_regulations": [
    {"regulation": "...", "jurisdiction": "...", "requirements": "...", "complexity": "high|medium|low"}
  ],
  "data_protection": [
    {"law": "...", "jurisdiction": "...", "key_requirements": "...", "penalties": "..."}
  ],
  "financial_regs": [
    {"regulation": "...", "applies_if": "...", "requirements": "..."}
  ],
  "regional_variations": [
    {"region": "...", "specific_requirements": "...", "difficulty": "..."}
  ],
  "sources": ["url 1", "url 2", ...]
}`

func buildLegalPrompt(req StageRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PROBLEM CONTEXT:\n%s\n", req.Instructions)
	writePriorFindings(&b, req.Prior)
	b.WriteString(`
Given the obstacles and solutions identified, please research the legal and regulatory landscape for this problem. Use web search to find:
- Regulations that apply to solutions in this space
- Data protection obligations
- Financial compliance requirements if applicable
- How requirements vary across regions

Cite specific regulations with sources.`)
	return b.String()
}

func parseLegal(text string) (*model.LegalFindings, bool) {
	raw, repaired, err := ExtractObject(text)
	if err == nil {
		var f model.LegalFindings
		if uerr := json.Unmarshal(raw, &f); uerr == nil {
			return &f, repaired
		}
	}
	return &model.LegalFindings{
		ParseError: parseErrorMarker,
		RawPreview: Preview(text),
	}, false
}
