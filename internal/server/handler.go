// Package server provides Connect RPC handlers for the daily expression service.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/at-ishikawa/dailyexpression/internal/daily"
	"github.com/at-ishikawa/dailyexpression/internal/expression"
	"github.com/at-ishikawa/dailyexpression/internal/progress"
	"github.com/at-ishikawa/dailyexpression/internal/quiz"
	"github.com/at-ishikawa/dailyexpression/internal/srs"
	"github.com/at-ishikawa/dailyexpression/internal/statistics"
)

const DefaultSessionTTL = 30 * time.Minute

// Handler implements every procedure of the expression service.
type Handler struct {
	catalog       *expression.Catalog
	engine        *srs.Engine
	tracker       *progress.Tracker
	quizSettings  quiz.Settings
	challengeSize int
	sessionTTL    time.Duration
	validator     *requestValidator
	logger        *slog.Logger
	now           func() time.Time

	mu        sync.Mutex
	generator *quiz.Generator
	sessions  map[string]*quizSession
}

// quizSession is a quiz in progress. A daily challenge saves its score
// when the last question is answered.
type quizSession struct {
	*quiz.Session
	isChallenge bool
}

type HandlerOption func(*Handler)

func WithQuizSettings(settings quiz.Settings) HandlerOption {
	return func(h *Handler) {
		h.quizSettings = settings
	}
}

func WithChallengeSize(size int) HandlerOption {
	return func(h *Handler) {
		h.challengeSize = size
	}
}

// WithSessionTTL drops unfinished quizzes started longer than ttl ago
func WithSessionTTL(ttl time.Duration) HandlerOption {
	return func(h *Handler) {
		h.sessionTTL = ttl
	}
}

func WithGenerator(generator *quiz.Generator) HandlerOption {
	return func(h *Handler) {
		h.generator = generator
	}
}

func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

func NewHandler(catalog *expression.Catalog, engine *srs.Engine, tracker *progress.Tracker, opts ...HandlerOption) (*Handler, error) {
	requestValidator, err := newRequestValidator()
	if err != nil {
		return nil, fmt.Errorf("newRequestValidator() > %w", err)
	}
	h := &Handler{
		catalog:       catalog,
		engine:        engine,
		tracker:       tracker,
		quizSettings:  quiz.DefaultSettings(),
		challengeSize: daily.DefaultChallengeSize,
		sessionTTL:    DefaultSessionTTL,
		validator:     requestValidator,
		logger:        slog.Default(),
		now:           time.Now,
		generator:     quiz.NewGenerator(),
		sessions:      make(map[string]*quizSession),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// GetDailyExpression returns today's featured expression and challenge.
func (h *Handler) GetDailyExpression(
	ctx context.Context,
	req *connect.Request[GetDailyExpressionRequest],
) (*connect.Response[GetDailyExpressionResponse], error) {
	if err := h.validator.validateRequest(req.Msg); err != nil {
		return nil, err
	}
	size := h.challengeSize
	if req.Msg.ChallengeSize > 0 {
		size = req.Msg.ChallengeSize
	}

	today := h.engine.Today()
	items := h.catalog.Items()
	featured, err := daily.Featured(items, today)
	if err != nil {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("pick featured expression: %w", err))
	}
	challenge, err := daily.Challenge(items, today, size)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("pick challenge: %w", err))
	}
	isLearned, err := h.tracker.IsLearned(ctx, featured.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("load progress(%s): %w", featured.ID, err))
	}
	challengeResult, err := h.tracker.ChallengeResult(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("load challenge result: %w", err))
	}

	return connect.NewResponse(&GetDailyExpressionResponse{
		Date:            today,
		Expression:      featured,
		Challenge:       challenge,
		IsLearned:       isLearned,
		ChallengeResult: challengeResult,
	}), nil
}

// GetDueItems lists the learned expressions due today, oldest learned first.
func (h *Handler) GetDueItems(
	ctx context.Context,
	req *connect.Request[GetDueItemsRequest],
) (*connect.Response[GetDueItemsResponse], error) {
	learnedIDs, err := h.tracker.LearnedIDs(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("load learned expressions: %w", err))
	}
	dueIDs, err := h.engine.DueItems(ctx, learnedIDs)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("load due items: %w", err))
	}
	records, err := h.engine.Records(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("load records: %w", err))
	}

	items := make([]DueItem, 0, len(dueIDs))
	for _, item := range h.catalog.Lookup(dueIDs) {
		items = append(items, DueItem{
			Expression: item,
			Record:     records[item.ID],
		})
	}
	return connect.NewResponse(&GetDueItemsResponse{
		Date:  h.engine.Today(),
		Items: items,
	}), nil
}

// MarkLearned adds an expression to the learned set, or removes it when Unmark is set.
func (h *Handler) MarkLearned(
	ctx context.Context,
	req *connect.Request[MarkLearnedRequest],
) (*connect.Response[MarkLearnedResponse], error) {
	if err := h.validator.validateRequest(req.Msg); err != nil {
		return nil, err
	}
	expressionID := req.Msg.ExpressionID
	if _, ok := h.catalog.Find(expressionID); !ok {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("expression %q not found", expressionID))
	}

	response := &MarkLearnedResponse{}
	if req.Msg.Unmark {
		if err := h.tracker.Unmark(ctx, expressionID); err != nil {
			return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("unmark(%s): %w", expressionID, err))
		}
	} else {
		record, err := h.tracker.MarkLearned(ctx, expressionID)
		if err != nil {
			return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("mark learned(%s): %w", expressionID, err))
		}
		response.Record = &record
	}

	current, err := h.tracker.Progress(ctx, expressionID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("load progress(%s): %w", expressionID, err))
	}
	response.Progress = current
	return connect.NewResponse(response), nil
}

// ReviewItem rates one review of a learned expression.
func (h *Handler) ReviewItem(
	ctx context.Context,
	req *connect.Request[ReviewItemRequest],
) (*connect.Response[ReviewItemResponse], error) {
	if err := h.validator.validateRequest(req.Msg); err != nil {
		return nil, err
	}
	expressionID := req.Msg.ExpressionID
	quality, err := srs.ParseQuality(req.Msg.Quality)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	record, err := h.engine.Review(ctx, expressionID, quality)
	if errors.Is(err, srs.ErrNotInitialized) {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("expression %q is not learned yet", expressionID))
	}
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("review(%s): %w", expressionID, err))
	}
	if err := h.tracker.RecordReview(ctx, expressionID); err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("record review(%s): %w", expressionID, err))
	}

	return connect.NewResponse(&ReviewItemResponse{
		Record:          record,
		DaysUntilReview: srs.DaysUntilReview(record, h.engine.Today()),
	}), nil
}

// StartQuiz generates a quiz and keeps its session until the last answer.
func (h *Handler) StartQuiz(
	ctx context.Context,
	req *connect.Request[StartQuizRequest],
) (*connect.Response[StartQuizResponse], error) {
	if err := h.validator.validateRequest(req.Msg); err != nil {
		return nil, err
	}
	settings, err := h.mergeSettings(req.Msg)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	pool := h.catalog.Items()
	if settings.IncludeOnlyLearned {
		learnedIDs, err := h.tracker.LearnedIDs(ctx)
		if err != nil {
			return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("load learned expressions: %w", err))
		}
		pool = quiz.FilterLearned(pool, learnedIDs)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	questions, err := h.generator.Generate(pool, settings)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("generate quiz: %w", err))
	}
	return h.startSession(questions, false)
}

// StartDailyChallenge starts today's challenge: one multiple-choice question
// per challenge expression. Each day's challenge can be completed once.
func (h *Handler) StartDailyChallenge(
	ctx context.Context,
	req *connect.Request[StartDailyChallengeRequest],
) (*connect.Response[StartQuizResponse], error) {
	if err := h.validator.validateRequest(req.Msg); err != nil {
		return nil, err
	}
	size := h.challengeSize
	if req.Msg.ChallengeSize > 0 {
		size = req.Msg.ChallengeSize
	}

	done, err := h.tracker.ChallengeResult(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("load challenge result: %w", err))
	}
	if done != nil {
		return nil, connect.NewError(connect.CodeAlreadyExists, fmt.Errorf("challenge of %s is already completed with %d/%d", done.Date, done.Score, done.Total))
	}

	items := h.catalog.Items()
	challenge, err := daily.Challenge(items, h.engine.Today(), size)
	if err != nil {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("pick challenge: %w", err))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.startSession(h.generator.GenerateChallenge(challenge, items), true)
}

// startSession must be called with h.mu held
func (h *Handler) startSession(questions []quiz.Question, isChallenge bool) (*connect.Response[StartQuizResponse], error) {
	now := h.now()
	h.evictExpiredSessions(now)

	session := &quizSession{
		Session:     quiz.NewSession(uuid.NewString()),
		isChallenge: isChallenge,
	}
	if err := session.Start(questions, now); err != nil {
		if errors.Is(err, quiz.ErrNoQuestions) {
			return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("no expression matches the quiz settings"))
		}
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("start quiz: %w", err))
	}
	h.sessions[session.ID] = session
	h.logger.Debug("started quiz",
		slog.String("sessionID", session.ID),
		slog.Int("questions", len(questions)),
		slog.Bool("challenge", isChallenge),
	)

	views := make([]QuestionView, 0, len(questions))
	for _, question := range questions {
		views = append(views, toQuestionView(question))
	}
	return connect.NewResponse(&StartQuizResponse{
		SessionID: session.ID,
		Questions: views,
	}), nil
}

// evictExpiredSessions drops the quizzes started more than sessionTTL ago.
// It must be called with h.mu held.
func (h *Handler) evictExpiredSessions(now time.Time) {
	for id, session := range h.sessions {
		if now.Sub(session.StartedAt) > h.sessionTTL {
			delete(h.sessions, id)
			h.logger.Debug("dropped abandoned quiz", slog.String("sessionID", id))
		}
	}
}

// SubmitAnswer grades the current question of a quiz session and moves on.
func (h *Handler) SubmitAnswer(
	ctx context.Context,
	req *connect.Request[SubmitAnswerRequest],
) (*connect.Response[SubmitAnswerResponse], error) {
	if err := h.validator.validateRequest(req.Msg); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.evictExpiredSessions(h.now())
	session, ok := h.sessions[req.Msg.SessionID]
	if !ok {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("quiz session %q not found", req.Msg.SessionID))
	}
	current, err := session.Current()
	if err != nil {
		return nil, connect.NewError(connect.CodeFailedPrecondition, err)
	}
	if current.ID != req.Msg.QuestionID {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("question %q is not the current question %q", req.Msg.QuestionID, current.ID))
	}

	correct, err := session.Submit(req.Msg.Answer)
	if err != nil {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("submit answer: %w", err))
	}
	if err := session.Next(h.now()); err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("next question: %w", err))
	}

	response := &SubmitAnswerResponse{
		Correct:       correct,
		CorrectAnswer: current.CorrectAnswer,
		Completed:     session.State == quiz.StateComplete,
	}
	if response.Completed {
		results := session.Results()
		response.Results = &results
		delete(h.sessions, session.ID)

		if session.isChallenge {
			record, err := h.tracker.CompleteChallenge(ctx, results.Correct, results.Total)
			if err != nil && !errors.Is(err, progress.ErrChallengeCompleted) {
				return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("save challenge result: %w", err))
			}
			response.ChallengeResult = &record
		}
	}
	return connect.NewResponse(response), nil
}

// GetStatistics summarizes the learned set and the review schedule.
func (h *Handler) GetStatistics(
	ctx context.Context,
	req *connect.Request[GetStatisticsRequest],
) (*connect.Response[GetStatisticsResponse], error) {
	learned, err := h.tracker.Learned(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("load learned expressions: %w", err))
	}
	records, err := h.engine.Records(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("load records: %w", err))
	}
	return connect.NewResponse(&GetStatisticsResponse{
		Statistics: statistics.Calculate(h.catalog, learned, records, h.engine.Today()),
	}), nil
}

// mergeSettings fills the fields the request leaves empty from the configured defaults
func (h *Handler) mergeSettings(req *StartQuizRequest) (quiz.Settings, error) {
	settings := h.quizSettings
	settings.IncludeOnlyLearned = req.IncludeOnlyLearned
	if req.QuestionCount > 0 {
		settings.QuestionCount = req.QuestionCount
	}
	if len(req.Types) > 0 {
		settings.Types = nil
		for _, value := range req.Types {
			t, err := quiz.ParseType(value)
			if err != nil {
				return quiz.Settings{}, err
			}
			settings.Types = append(settings.Types, t)
		}
	}
	if len(req.Categories) > 0 {
		settings.Categories = nil
		for _, value := range req.Categories {
			category, err := expression.ParseCategory(value)
			if err != nil {
				return quiz.Settings{}, err
			}
			settings.Categories = append(settings.Categories, category)
		}
	}
	return settings, nil
}
