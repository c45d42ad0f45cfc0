package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/ai-interviewer/internal/agent"
	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
	"alfredoptarigan/ai-interviewer/internal/services"
)

type SessionHandler struct {
	interviewRepo     repositories.InterviewRepository
	sessionRepo       repositories.SessionRepository
	memoryRepo        repositories.MemoryRepository
	orchestrator      *agent.Orchestrator
	recentTurnWindow  int
	completionTimeout time.Duration
}

func NewSessionHandler(
	interviewRepo repositories.InterviewRepository,
	sessionRepo repositories.SessionRepository,
	memoryRepo repositories.MemoryRepository,
	orchestrator *agent.Orchestrator,
	recentTurnWindow int,
	completionTimeout time.Duration,
) *SessionHandler {
	return &SessionHandler{
		interviewRepo:     interviewRepo,
		sessionRepo:       sessionRepo,
		memoryRepo:        memoryRepo,
		orchestrator:      orchestrator,
		recentTurnWindow:  recentTurnWindow,
		completionTimeout: completionTimeout,
	}
}

// HandleStart handles POST /interviews/:id/start. It mints a fresh run ID,
// generates the opening question and stores it as a placeholder turn that the
// first real answer later fills in.
func (h *SessionHandler) HandleStart(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	interview, err := h.interviewRepo.FindByID(interviewID)
	if err != nil {
		return respondError(c, err)
	}

	profile, memory := h.loadProfile(interviewID)
	runID := uuid.New()

	ctx, cancel := context.WithTimeout(c.Context(), h.completionTimeout)
	defer cancel()

	result, err := h.orchestrator.StartRun(ctx, agent.StartRunInput{
		RunID:           runID.String(),
		InterviewID:     interviewID.String(),
		Title:           interview.Title,
		DurationMinutes: interview.DurationMinutes,
		Profile:         profile,
	})
	if err != nil {
		return respondError(c, err)
	}

	opening := &models.InterviewSession{
		ID:          uuid.New(),
		InterviewID: interviewID,
		RunID:       &runID,
		AIMessage:   result.OpeningQuestion,
		UserMessage: models.RunStartedMarker,
		CreatedAt:   time.Now(),
	}
	if err := h.sessionRepo.Create(opening); err != nil {
		return respondError(c, err)
	}

	resp := models.StartRunResponse{
		InterviewID:     interviewID.String(),
		RunID:           runID.String(),
		OpeningQuestion: result.OpeningQuestion,
		Title:           interview.Title,
		DurationMinutes: interview.DurationMinutes,
	}
	if memory != nil {
		resp.CVSummary = memory.CVSummary
		resp.JDSummary = memory.JDSummary
	}

	return c.JSON(resp)
}

// HandleMessage handles POST /interviews/:id/messages: one candidate answer
// in, the next question plus feedback out, with the turn persisted.
func (h *SessionHandler) HandleMessage(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	interview, err := h.interviewRepo.FindByID(interviewID)
	if err != nil {
		return respondError(c, err)
	}

	var req models.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	runID, err := h.resolveRunID(interviewID, req.RunID)
	if err != nil {
		return respondError(c, err)
	}

	ended, err := h.sessionRepo.RunEnded(interviewID, runID)
	if err != nil {
		return respondError(c, err)
	}
	if ended {
		return respondError(c, agent.ErrRunEnded)
	}

	recent, err := h.sessionRepo.FindRecentByRun(interviewID, runID, h.recentTurnWindow)
	if err != nil {
		return respondError(c, err)
	}

	priorTurns, err := h.sessionRepo.CountByRun(interviewID, runID)
	if err != nil {
		return respondError(c, err)
	}

	profile, _ := h.loadProfile(interviewID)

	ctx, cancel := context.WithTimeout(c.Context(), h.completionTimeout)
	defer cancel()

	result, err := h.orchestrator.ProcessTurn(ctx, agent.TurnInput{
		RunID:           runID.String(),
		InterviewID:     interviewID.String(),
		Title:           interview.Title,
		DurationMinutes: interview.DurationMinutes,
		Profile:         profile,
		UserMessage:     req.UserMessage,
		PriorTurnCount:  int(priorTurns),
		RecentTurns:     toAgentTurns(recent),
	})
	if err != nil {
		return respondError(c, err)
	}

	var feedback *string
	if result.Feedback != "" {
		feedback = &result.Feedback
	}

	session, err := h.persistTurn(interviewID, runID, int(priorTurns), result.Question, req.UserMessage, feedback)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SendMessageResponse{
		SessionID: session.ID.String(),
		RunID:     runID.String(),
		AIMessage: result.Question,
		Feedback:  feedback,
		Memory:    toMemoryState(result.Memory),
		CreatedAt: session.CreatedAt,
	})
}

// HandleEnd handles POST /interviews/:id/end: writes the end marker with a
// closing summary and discards the run's session memory.
func (h *SessionHandler) HandleEnd(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	if _, err := h.interviewRepo.FindByID(interviewID); err != nil {
		return respondError(c, err)
	}

	var req models.EndRunRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	runID, err := uuid.Parse(req.RunID)
	if err != nil {
		return c.JSON(models.EndRunResponse{
			InterviewID: interviewID.String(),
			Status:      "ended",
		})
	}

	recent, err := h.sessionRepo.FindRecentByRun(interviewID, runID, h.recentTurnWindow)
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Context(), h.completionTimeout)
	defer cancel()

	summary := h.orchestrator.EndRun(ctx, runID.String(), toAgentTurns(recent))

	endMarker := &models.InterviewSession{
		ID:          uuid.New(),
		InterviewID: interviewID,
		RunID:       &runID,
		AIMessage:   summary,
		UserMessage: models.RunEndedMarker,
		CreatedAt:   time.Now(),
	}
	if err := h.sessionRepo.Create(endMarker); err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.EndRunResponse{
		InterviewID: interviewID.String(),
		RunID:       runID.String(),
		Status:      "ended",
		Summary:     summary,
	})
}

// HandleListSessions handles GET /interviews/:id/sessions
func (h *SessionHandler) HandleListSessions(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	if _, err := h.interviewRepo.FindByID(interviewID); err != nil {
		return respondError(c, err)
	}

	sessions, err := h.sessionRepo.FindByInterview(interviewID, 200)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"interview_id": interviewID.String(),
		"sessions":     sessions,
	})
}

// HandleLatestSession handles GET /interviews/:id/latest-session, used by
// clients to resume the correct run or detect an ended one.
func (h *SessionHandler) HandleLatestSession(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	if _, err := h.interviewRepo.FindByID(interviewID); err != nil {
		return respondError(c, err)
	}

	session, err := h.sessionRepo.FindLatest(interviewID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(nil)
		}
		return respondError(c, err)
	}

	return c.JSON(session)
}

// loadProfile reads the stored interview memory; a missing profile is not an
// error, the interview just runs without personalization.
func (h *SessionHandler) loadProfile(interviewID uuid.UUID) (agent.Profile, *models.InterviewMemory) {
	memory, err := h.memoryRepo.FindByInterview(interviewID)
	if err != nil {
		return agent.Profile{}, nil
	}
	return services.BuildAgentProfile(memory), memory
}

// resolveRunID uses the explicit run ID when given, otherwise resumes the
// most recent run, minting a new one only when the interview has no turns.
func (h *SessionHandler) resolveRunID(interviewID uuid.UUID, raw string) (uuid.UUID, error) {
	if raw != "" {
		if runID, err := uuid.Parse(raw); err == nil {
			return runID, nil
		}
	}

	latest, err := h.sessionRepo.FindLatest(interviewID)
	if err == nil && latest.RunID != nil {
		return *latest.RunID, nil
	}
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return uuid.Nil, err
	}

	return uuid.New(), nil
}

// persistTurn appends the turn, or fills the opening placeholder when this is
// the run's first real answer.
func (h *SessionHandler) persistTurn(interviewID, runID uuid.UUID, priorTurns int, aiMessage, userMessage string, feedback *string) (*models.InterviewSession, error) {
	if priorTurns == 0 {
		placeholder, err := h.sessionRepo.FindOpeningPlaceholder(interviewID, runID)
		if err == nil {
			if err := h.sessionRepo.UpdateOpeningPlaceholder(placeholder.ID, aiMessage, userMessage, feedback); err != nil {
				return nil, err
			}
			placeholder.AIMessage = aiMessage
			placeholder.UserMessage = userMessage
			placeholder.Feedback = feedback
			return placeholder, nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	}

	session := &models.InterviewSession{
		ID:          uuid.New(),
		InterviewID: interviewID,
		RunID:       &runID,
		AIMessage:   aiMessage,
		UserMessage: userMessage,
		Feedback:    feedback,
		CreatedAt:   time.Now(),
	}
	if err := h.sessionRepo.Create(session); err != nil {
		return nil, err
	}

	return session, nil
}

func toAgentTurns(sessions []models.InterviewSession) []agent.Turn {
	turns := make([]agent.Turn, 0, len(sessions))
	for _, s := range sessions {
		turn := agent.Turn{
			Question: s.AIMessage,
			Answer:   s.UserMessage,
		}
		if s.Feedback != nil {
			turn.Feedback = *s.Feedback
		}
		turns = append(turns, turn)
	}
	return turns
}

func toMemoryState(mem agent.SessionMemory) *models.MemoryState {
	return &models.MemoryState{
		Stage:           string(mem.Stage),
		QuestionCount:   mem.QuestionCount,
		LastAnswerDepth: mem.LastAnswerDepth,
		TopicsCovered:   mem.TopicsCovered,
		CandidateName:   mem.CandidateName,
	}
}
