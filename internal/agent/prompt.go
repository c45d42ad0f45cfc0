package agent

import (
	"fmt"
	"strings"
)

// Markers of the structured reply contract. The model is instructed to end
// every reply with a QUESTION line and, outside the intro/closing stages, an
// optional FEEDBACK line.
const (
	questionMarker = "QUESTION:"
	feedbackMarker = "FEEDBACK:"
)

// Prompt is the three-block payload sent to the completion service: a
// stage-specific system instruction, the assembled context block and the task
// instruction carrying the candidate's latest message.
type Prompt struct {
	System  string
	Context string
	User    string
}

// StageInstruction returns the system instruction for the current stage,
// parameterized by candidate name and question number.
func StageInstruction(stage Stage, candidateName string, questionNumber int) string {
	const persona = "You are a thoughtful senior technical interviewer. Your job: run a realistic, adaptive 1-on-1 interview that feels human."

	switch stage {
	case StageIntro:
		return fmt.Sprintf(`%s

Current Stage: INTRO
Candidate Name: %s

Rules:
1. Always greet the candidate by name.
2. Reference one concrete item from the CV or job description early to show familiarity.
3. Keep questions short (1-3 sentences).
4. Maintain a friendly, professional tone.

Stage behavior:
- Greet: "Hello %s, glad to meet you."
- Ask for a 60-90 second self-introduction focused on impact and responsibilities.

End with a single QUESTION line.`, persona, candidateName, candidateName)

	case StageBehavioral:
		return fmt.Sprintf(`%s

Current Stage: BEHAVIORAL
Candidate: %s
Question #%d

Rules:
1. Ask about past projects and experiences using the STAR method.
2. Focus on problem-solving, teamwork, leadership and ownership.
3. Ask situational questions.

Stage behavior:
- Ask STAR-style prompts: Situation, Task, Action, Result.
- Focus on ownership, communication, team interactions and learning.

End with a single QUESTION line and optional FEEDBACK.`, persona, candidateName, questionNumber)

	case StageClosing:
		return fmt.Sprintf(`%s

Current Stage: CLOSING
Candidate: %s

Rules:
1. Wrap up the interview.
2. Ask if they have any questions.
3. Provide next-step expectations.

Keep it professional and positive. End with a single QUESTION line.`, persona, candidateName)

	default: // technical
		return fmt.Sprintf(`%s

Current Stage: TECHNICAL
Candidate: %s
Question #%d

Rules:
1. Ask technical questions grounded in the job requirements and CV.
2. Probe deeper into their answers - if they mention something, ask for details.
3. Test understanding, not memorization.
4. Gradually increase difficulty based on their answers.

Stage behavior:
- Start with an anchor question on a recent project or skill.
- Probing loop: clarify requirements, ask for approach, ask about trade-offs, ask about edge cases.
- If the answer is shallow (depth < 0.5), probe deeper; if strong (depth > 0.7), escalate difficulty.

End with a single QUESTION line and optional FEEDBACK.`, persona, candidateName, questionNumber)
	}
}

// BuildOpeningPrompt builds the payload for the one opening question of a run.
func BuildOpeningPrompt(mem *SessionMemory, context string) Prompt {
	user := fmt.Sprintf(`Generate a warm, personalized opening greeting and question.

Greet %s by name.
Reference one concrete item from their CV or the job description if available.
Ask for a 60-90 second self-introduction focused on impact and responsibilities.
Keep it friendly and professional (2-3 sentences max).

Format:
QUESTION: [your greeting and question]`, mem.CandidateName)

	return Prompt{
		System:  StageInstruction(StageIntro, mem.CandidateName, 0),
		Context: context,
		User:    user,
	}
}

// BuildTurnPrompt builds the payload for a follow-up turn.
func BuildTurnPrompt(mem *SessionMemory, title, context, conversationSummary, userMessage string) Prompt {
	user := fmt.Sprintf(`Generate the next interview question and feedback.

INTERVIEW CONTEXT:
- Title: %s
- Stage: %s
- Question #%d
- Candidate: %s
- Last Answer Depth: %.1f/1.0

CONVERSATION SUMMARY:
%s

CANDIDATE'S LATEST RESPONSE:
%s

TASK:
1. Read their answer carefully.
2. If the answer was brief (depth < 0.5), probe deeper: "Can you tell me more about...?"
3. If the answer was good (depth > 0.7), acknowledge it and go deeper.
4. Reference what they just said in your next question.

Generate:
1. Your next question (2-3 sentences, builds on their answer)
2. Brief, specific feedback that references something from their answer

Format your response as:
QUESTION: [your question]
FEEDBACK: [brief feedback referencing their answer]`,
		title,
		strings.ToUpper(string(mem.Stage)),
		mem.QuestionCount,
		mem.CandidateName,
		mem.LastAnswerDepth,
		conversationSummary,
		userMessage,
	)

	return Prompt{
		System:  StageInstruction(mem.Stage, mem.CandidateName, mem.QuestionCount),
		Context: context,
		User:    user,
	}
}

// ParseReply splits a model reply into question and feedback using the marker
// contract. Malformed replies degrade instead of failing: without markers the
// whole reply is the question and feedback is empty.
func ParseReply(raw string) (question, feedback string) {
	trimmed := strings.TrimSpace(raw)

	if before, after, found := strings.Cut(trimmed, feedbackMarker); found {
		question = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(before), questionMarker))
		feedback = strings.TrimSpace(after)
		return question, feedback
	}

	if idx := strings.Index(trimmed, questionMarker); idx >= 0 {
		return strings.TrimSpace(trimmed[idx+len(questionMarker):]), ""
	}

	return trimmed, ""
}
