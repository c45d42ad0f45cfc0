package services

import (
	"fmt"
	"strings"
)

// Raw profile text is truncated before prompting to bound extraction cost.
const extractionTextBudget = 4000

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCVSummaryPrompt creates the prompt for a concise CV summary.
func (pb *PromptBuilder) BuildCVSummaryPrompt(cvText string) string {
	return fmt.Sprintf(`Summarize this CV in 10-15 lines, highlighting:
- Professional background
- Key skills and expertise
- Years of experience
- Notable achievements or projects
- Education background

CV Content:
%s

Summary:`, truncateText(cvText, extractionTextBudget))
}

// BuildCVExtractionPrompt creates the prompt for structured CV extraction.
func (pb *PromptBuilder) BuildCVExtractionPrompt(cvText string) string {
	return fmt.Sprintf(`Extract structured information from this CV and return ONLY valid JSON (no markdown, no code blocks, just JSON):

{
  "name": "",
  "email": "",
  "location": "",
  "total_experience_years": "",
  "current_role": "",
  "skills": {
    "languages": [],
    "frameworks": [],
    "databases": [],
    "cloud_platforms": [],
    "tools": [],
    "other": []
  },
  "projects": [
    {
      "name": "",
      "description": "",
      "tech_stack": [],
      "impact": ""
    }
  ],
  "education": ""
}

CV Content:
%s`, truncateText(cvText, extractionTextBudget))
}

// BuildJDSummaryPrompt creates the prompt for a concise job description summary.
func (pb *PromptBuilder) BuildJDSummaryPrompt(jdText string) string {
	return fmt.Sprintf(`Summarize this job description in 8-12 lines, highlighting:
- The role and its seniority
- Must-have skills and experience
- Main responsibilities
- Anything unusual a candidate should prepare for

Job Description:
%s

Summary:`, truncateText(jdText, extractionTextBudget))
}

// BuildJDExtractionPrompt creates the prompt for structured JD extraction.
func (pb *PromptBuilder) BuildJDExtractionPrompt(jdText string) string {
	return fmt.Sprintf(`Extract structured information from this job description and return ONLY valid JSON (no markdown, no code blocks, just JSON):

{
  "role": "",
  "must_have_skills": [],
  "nice_to_have_skills": [],
  "required_experience_years": "",
  "responsibilities": []
}

Job Description:
%s`, truncateText(jdText, extractionTextBudget))
}

// ExtractJSON pulls the JSON object or array out of a model reply that might
// wrap it in markdown or prose.
func ExtractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}

func truncateText(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max]
}
