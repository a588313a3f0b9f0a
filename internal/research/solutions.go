// File: internal/research/solutions.go
package research

import (
	"encoding/json"
	"fmt"
	"strings"

	"ai-research-orchestrator/internal/domain/model"
)

const solutionsSystemPrompt = `You are an expert analyst researching existing solutions and workarounds for problems.

Your role is to conduct thorough research and identify:
1. Manual solutions - how people solve this problem manually today
2. Digital solutions - existing software/apps/platforms addressing this
3. Workarounds - creative ways people route around the problem
4. Gaps - what current solutions are missing that creates opportunities

For each solution category, provide:
- Specific examples with names/details
- How well they solve the problem (fully, partially, poorly)
- What they are missing or doing wrong
- Sources and URLs for verification

Use web_search to find:
- Existing products and services
- User forums and discussions about solutions
- Product reviews and comparisons
- Alternative approaches people are using

Output your findings as a JSON object with this structure:
{
  "manual_solutions": [
    {"name": "...", "description": "...", "effectiveness": "...", "limitations": "..."}
  ],
  "digital_solutions": [
    {"name": "...", "url": "...", "description": "...", "strengths": "...", "weaknesses": "..."}
  ],
  "workarounds": ["workaround 1", "workaround 2", ...],
  "gaps": ["gap 1", "gap 2", ...],
  "sources": ["url 1", "url 2", ...]
}`

func buildSolutionsPrompt(req StageRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PROBLEM CONTEXT:\n%s\n", req.Instructions)
	writePriorFindings(&b, req.Prior)
	b.WriteString(`
Given the obstacles identified, please research existing solutions and workarounds. Use web search to find:
- Current products/services addressing this problem
- How people solve this manually today
- Forum discussions about solutions and workarounds
- Gaps and limitations in existing approaches

Focus on finding concrete, real-world examples with sources.`)
	return b.String()
}

func parseSolutions(text string) (*model.SolutionsFindings, bool) {
	raw, repaired, err := ExtractObject(text)
	if err == nil {
		var f model.SolutionsFindings
		if uerr := json.Unmarshal(raw, &f); uerr == nil {
			return &f, repaired
		}
	}
	return &model.SolutionsFindings{
		ParseError: parseErrorMarker,
		RawPreview: Preview(text),
	}, false
}
