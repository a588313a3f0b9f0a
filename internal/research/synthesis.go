// File: internal/research/synthesis.go
package research

import (
	"fmt"
	"strings"
)

const synthesisSystemPrompt = `You are an executive business analyst producing a complete market research report.

Your role is to synthesize the findings of 5 research agents into a clear, actionable executive summary.

The summary must:
1. Open with a brief problem statement
2. Summarize the key obstacles and challenges
3. Analyze existing solutions and their gaps
4. Highlight critical legal/regulatory considerations
5. Assess the competitive landscape
6. Quantify the market opportunity
7. Provide strategic recommendations

Write in clear, professional prose. Use bullet points for key insights. Focus on actionable intelligence.

Aim for 800-1200 words. Include specific data points and sources where relevant. Do not output JSON or code blocks.`

func buildSynthesisPrompt(req StageRequest) string {
	var b strings.Builder
	b.WriteString("Please synthesize the following market research findings into a complete executive summary.\n")
	fmt.Fprintf(&b, "\nPROBLEM CONTEXT:\n%s\n", req.Instructions)
	writePriorFindings(&b, req.Prior)
	b.WriteString("\nCreate a well-structured report that tells the complete story and provides actionable insights.")
	return b.String()
}
