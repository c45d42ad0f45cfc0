package services

import (
	"alfredoptarigan/ai-interviewer/internal/agent"
	"alfredoptarigan/ai-interviewer/internal/models"
)

const (
	maxCVHighlights    = 10
	maxJDRequirements  = 8
	skillsPerCategory  = 3
	projectsHighlights = 2
)

// BuildAgentProfile flattens the stored interview memory into the read-only
// profile view the agent consumes. A nil memory yields an empty profile; the
// agent tolerates every missing field.
func BuildAgentProfile(memory *models.InterviewMemory) agent.Profile {
	if memory == nil {
		return agent.Profile{}
	}

	profile := agent.Profile{
		CandidateName:  candidateName(memory.CVDetails),
		CVSkills:       cvHighlights(memory.CVDetails),
		JDRequirements: jdRequirements(memory.JDDetails),
	}

	if memory.CVSummary != nil {
		profile.CVSummary = *memory.CVSummary
	}
	if memory.JDSummary != nil {
		profile.JDSummary = *memory.JDSummary
	}

	return profile
}

func candidateName(details *models.CandidateDetails) string {
	if details == nil {
		return ""
	}
	return details.Name
}

func cvHighlights(details *models.CandidateDetails) []string {
	if details == nil {
		return nil
	}

	var highlights []string
	for _, skillList := range details.Skills {
		count := 0
		for _, skill := range skillList {
			if skill == "" {
				continue
			}
			highlights = append(highlights, skill)
			count++
			if count == skillsPerCategory {
				break
			}
		}
	}

	for i, project := range details.Projects {
		if i == projectsHighlights {
			break
		}
		if project.Name != "" {
			highlights = append(highlights, "Project: "+project.Name)
		}
	}

	if len(highlights) > maxCVHighlights {
		highlights = highlights[:maxCVHighlights]
	}
	return highlights
}

func jdRequirements(details *models.JobDetails) []string {
	if details == nil {
		return nil
	}

	var requirements []string
	for i, skill := range details.MustHaveSkills {
		if i == 5 {
			break
		}
		if skill != "" {
			requirements = append(requirements, skill)
		}
	}

	if details.Role != "" {
		requirements = append(requirements, "Role: "+details.Role)
	}
	if details.RequiredExperienceYears != "" {
		requirements = append(requirements, "Experience: "+details.RequiredExperienceYears+" years")
	}

	if len(requirements) > maxJDRequirements {
		requirements = requirements[:maxJDRequirements]
	}
	return requirements
}
