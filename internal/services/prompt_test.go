package services

import (
	"encoding/json"
	"strings"
	"testing"

	"alfredoptarigan/ai-interviewer/internal/models"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain object",
			input: `{"name": "Budi"}`,
			want:  `{"name": "Budi"}`,
		},
		{
			name:  "markdown code fence",
			input: "```json\n{\"name\": \"Budi\"}\n```",
			want:  "\n{\"name\": \"Budi\"}\n",
		},
		{
			name:  "prose around object",
			input: "Here is the extracted data: {\"role\": \"Backend Engineer\"} Let me know if you need more.",
			want:  `{"role": "Backend Engineer"}`,
		},
		{
			name:  "array payload",
			input: "Result: [1, 2, 3]",
			want:  "[1, 2, 3]",
		},
		{
			name:  "no json at all",
			input: "I could not extract anything useful.",
			want:  "I could not extract anything useful.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSON(tt.input)
			if strings.TrimSpace(got) != strings.TrimSpace(tt.want) {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractJSONRoundTripsIntoCandidateDetails(t *testing.T) {
	reply := "Sure! Here you go:\n```json\n" + `{
  "name": "Siti Rahma",
  "email": "siti@example.com",
  "current_role": "Backend Engineer",
  "skills": {"languages": ["Go", "Python"]},
  "projects": [{"name": "Billing revamp", "impact": "cut costs 30%"}],
  "education": "Computer Science"
}` + "\n```\nLet me know if you need anything else."

	var details models.CandidateDetails
	if err := json.Unmarshal([]byte(ExtractJSON(reply)), &details); err != nil {
		t.Fatalf("unmarshal extracted JSON: %v", err)
	}

	if details.Name != "Siti Rahma" {
		t.Errorf("Name = %q", details.Name)
	}
	if len(details.Skills["languages"]) != 2 {
		t.Errorf("Skills = %v", details.Skills)
	}
	if len(details.Projects) != 1 || details.Projects[0].Name != "Billing revamp" {
		t.Errorf("Projects = %v", details.Projects)
	}
}

func TestPromptBuildersTruncateInput(t *testing.T) {
	pb := NewPromptBuilder()
	huge := strings.Repeat("x", 10000)

	prompts := map[string]string{
		"cv summary":    pb.BuildCVSummaryPrompt(huge),
		"cv extraction": pb.BuildCVExtractionPrompt(huge),
		"jd summary":    pb.BuildJDSummaryPrompt(huge),
		"jd extraction": pb.BuildJDExtractionPrompt(huge),
	}

	for name, prompt := range prompts {
		if strings.Contains(prompt, huge) {
			t.Errorf("%s prompt carries the full untruncated text", name)
		}
		if !strings.Contains(prompt, strings.Repeat("x", 4000)) {
			t.Errorf("%s prompt lost the truncated text", name)
		}
	}
}

func TestExtractionPromptsDescribeTheSchema(t *testing.T) {
	pb := NewPromptBuilder()

	cvPrompt := pb.BuildCVExtractionPrompt("CV text")
	for _, field := range []string{`"name"`, `"skills"`, `"projects"`, `"education"`} {
		if !strings.Contains(cvPrompt, field) {
			t.Errorf("CV extraction prompt missing %s field", field)
		}
	}

	jdPrompt := pb.BuildJDExtractionPrompt("JD text")
	for _, field := range []string{`"role"`, `"must_have_skills"`, `"required_experience_years"`} {
		if !strings.Contains(jdPrompt, field) {
			t.Errorf("JD extraction prompt missing %s field", field)
		}
	}
}
