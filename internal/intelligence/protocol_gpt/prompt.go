package protocol_gpt

import (
	"encoding/json"
	"strings"
	"text/template"

	"github.com/turtacn/protoscribe/pkg/textutil"
	ptypes "github.com/turtacn/protoscribe/pkg/types/protocol"
)

// Content excerpt limits per prompt, in characters.
const (
	itemContextLimit    = 1500
	summaryContextLimit = 2000
	generalContextLimit = 3000
	sectionValueLimit   = 300
)

// System prompts per analysis task.
const (
	systemReviewer    = "You are an expert clinical trial protocol reviewer."
	systemWriter      = "You are an expert clinical trial protocol writer and regulatory affairs specialist."
	systemConsistency = "You are an expert at identifying inconsistencies in clinical trial protocols."
	systemExecSummary = "You are a senior clinical research expert providing executive-level protocol assessments."
)

var builtinTemplates = map[string]string{
	"item_suggestion": `You are an expert clinical trial protocol writer. A protocol is missing this required element:

Item: {{.ItemID}} - {{.Description}}
Guideline: {{.Guideline}}
Section: {{.Section}}

Context from protocol: {{excerpt .Content 1500}}

Provide a JSON response with:
{
    "suggested_text": "Specific text to add that addresses this requirement",
    "placement_guidance": "Where in the protocol this should be placed",
    "explanation": "Why this element is important and how it improves the protocol",
    "confidence": 0.8,
    "alternative_approaches": ["Alternative way 1", "Alternative way 2"],
    "regulatory_context": "How this relates to regulatory requirements"
}`,

	"general_improvement": `You are an expert in clinical trial protocol writing and regulatory guidelines (CONSORT/SPIRIT).

Please review this clinical trial protocol excerpt and suggest 3-5 specific improvements:

Protocol content (first 3000 characters):
{{excerpt .Content 3000}}

Focus on:
- Clarity and specificity of language
- Completeness of key elements
- Adherence to best practices
- Areas that could be more detailed or explicit

Format your response as JSON array:
[
    {
        "type": "clarity|completeness|specificity|best_practice",
        "section": "Target section name",
        "issue": "Description of the issue",
        "suggestion": "Specific improvement suggestion",
        "confidence": 7
    }
]`,

	"clarity_analysis": `Analyze this clinical trial protocol for clarity and completeness issues.

Protocol sections:
{{sectionsJSON .Sections}}

Identify 3-5 specific areas where the protocol could be clearer or more complete. For each issue, provide:
1. The specific problem
2. The impact on protocol quality
3. A concrete suggestion for improvement

Format as JSON array:
[
    {
        "issue_type": "clarity|completeness|specificity",
        "section": "section name",
        "problem": "specific issue description",
        "impact": "how this affects the protocol",
        "suggestion": "concrete improvement recommendation",
        "priority": "high|medium|low"
    }
]`,

	"consistency_check": `Check this clinical trial protocol for internal consistency issues.

Look for conflicts between:
- Primary/secondary endpoints and outcome measures
- Sample size calculations and stated objectives
- Inclusion/exclusion criteria and study population
- Timeline and procedure descriptions
- Statistical methods and study design

Protocol sections:
{{sectionsJSON .Sections}}

Return findings as JSON array:
[
    {
        "consistency_issue": "description of the conflict",
        "affected_sections": ["section1", "section2"],
        "severity": "high|medium|low",
        "recommendation": "how to resolve the inconsistency"
    }
]`,

	"executive_summary": `Analyze this clinical trial protocol and provide a concise executive summary of its overall quality and readiness.

Protocol content (first 2000 chars): {{excerpt .Content 2000}}

Provide a 2-3 paragraph executive summary covering:
1. Overall protocol quality assessment
2. Key strengths and major weaknesses
3. Priority recommendations for improvement
4. Estimated readiness level for regulatory submission

Keep the response professional and actionable.`,
}

// promptData carries every field any built-in template can reference.
type promptData struct {
	ItemID      string
	Description string
	Guideline   string
	Section     string
	Content     string
	Sections    map[string]string
}

var promptFuncs = template.FuncMap{
	"excerpt":      excerpt,
	"sectionsJSON": sectionsJSON,
}

var parsedTemplates = mustParseTemplates()

func mustParseTemplates() map[string]*template.Template {
	out := make(map[string]*template.Template, len(builtinTemplates))
	for name, raw := range builtinTemplates {
		out[name] = template.Must(template.New(name).Funcs(promptFuncs).Parse(raw))
	}
	return out
}

func renderPrompt(name string, data promptData) string {
	var sb strings.Builder
	if err := parsedTemplates[name].Execute(&sb, data); err != nil {
		// Built-in templates only reference promptData fields, so execution
		// cannot fail on well-formed data; return what rendered.
		return sb.String()
	}
	return sb.String()
}

// excerpt caps content at limit characters without an ellipsis, matching how
// prompts quote the leading portion of a document.
func excerpt(content string, limit int) string {
	if len(content) <= limit {
		return content
	}
	return content[:limit]
}

// sectionsJSON renders a section map as indented JSON with each section body
// truncated, keeping prompt size bounded on large protocols.
func sectionsJSON(sections map[string]string) string {
	truncated := make(map[string]string, len(sections))
	for name, body := range sections {
		truncated[name] = textutil.Truncate(body, sectionValueLimit)
	}
	data, err := json.MarshalIndent(truncated, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func itemSuggestionPrompt(item ptypes.FailedItem, content string) []Message {
	return []Message{
		{Role: RoleSystem, Content: systemWriter},
		{Role: RoleUser, Content: renderPrompt("item_suggestion", promptData{
			ItemID:      item.ItemID,
			Description: item.Description,
			Guideline:   string(item.Guideline),
			Section:     item.Section,
			Content:     content,
		})},
	}
}

func generalImprovementPrompt(content string) []Message {
	return []Message{
		{Role: RoleSystem, Content: systemReviewer},
		{Role: RoleUser, Content: renderPrompt("general_improvement", promptData{Content: content})},
	}
}

func clarityPrompt(sections map[string]string) []Message {
	return []Message{
		{Role: RoleSystem, Content: systemReviewer},
		{Role: RoleUser, Content: renderPrompt("clarity_analysis", promptData{Sections: sections})},
	}
}

func consistencyPrompt(sections map[string]string) []Message {
	return []Message{
		{Role: RoleSystem, Content: systemConsistency},
		{Role: RoleUser, Content: renderPrompt("consistency_check", promptData{Sections: sections})},
	}
}

func executiveSummaryPrompt(content string) []Message {
	return []Message{
		{Role: RoleSystem, Content: systemExecSummary},
		{Role: RoleUser, Content: renderPrompt("executive_summary", promptData{Content: content})},
	}
}
