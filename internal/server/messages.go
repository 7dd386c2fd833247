package server

import (
	"github.com/at-ishikawa/dailyexpression/internal/date"
	"github.com/at-ishikawa/dailyexpression/internal/expression"
	"github.com/at-ishikawa/dailyexpression/internal/progress"
	"github.com/at-ishikawa/dailyexpression/internal/quiz"
	"github.com/at-ishikawa/dailyexpression/internal/srs"
	"github.com/at-ishikawa/dailyexpression/internal/statistics"
)

type GetDailyExpressionRequest struct {
	// ChallengeSize overrides daily.challenge_size when set
	ChallengeSize int `json:"challengeSize,omitempty" validate:"omitempty,min=1,max=100"`
}

type GetDailyExpressionResponse struct {
	Date       date.Date               `json:"date"`
	Expression expression.Expression   `json:"expression"`
	Challenge  []expression.Expression `json:"challenge"`
	IsLearned  bool                    `json:"isLearned"`
	// ChallengeResult is set once today's challenge is completed
	ChallengeResult *progress.ChallengeRecord `json:"challengeResult,omitempty"`
}

type GetDueItemsRequest struct{}

type DueItem struct {
	Expression expression.Expression `json:"expression"`
	Record     srs.Record            `json:"record"`
}

type GetDueItemsResponse struct {
	Date  date.Date `json:"date"`
	Items []DueItem `json:"items"`
}

type MarkLearnedRequest struct {
	ExpressionID string `json:"expressionId" validate:"required"`
	// Unmark removes the expression from the learned set instead
	Unmark bool `json:"unmark,omitempty"`
}

type MarkLearnedResponse struct {
	Progress progress.Progress `json:"progress"`
	Record   *srs.Record       `json:"record,omitempty"`
}

type ReviewItemRequest struct {
	ExpressionID string `json:"expressionId" validate:"required"`
	Quality      string `json:"quality" validate:"required,oneof=again hard good easy"`
}

type ReviewItemResponse struct {
	Record          srs.Record `json:"record"`
	DaysUntilReview int        `json:"daysUntilReview"`
}

type StartQuizRequest struct {
	QuestionCount      int      `json:"questionCount,omitempty" validate:"omitempty,min=1,max=100"`
	Types              []string `json:"types,omitempty" validate:"dive,oneof=multiple-choice fill-in-blank"`
	Categories         []string `json:"categories,omitempty" validate:"dive,category"`
	IncludeOnlyLearned bool     `json:"includeOnlyLearned,omitempty"`
}

// QuestionView is a question without its answer
type QuestionView struct {
	ID              string    `json:"id"`
	Type            quiz.Type `json:"type"`
	ExpressionID    string    `json:"expressionId"`
	Prompt          string    `json:"prompt"`
	Options         []string  `json:"options,omitempty"`
	BlankedSentence string    `json:"blankedSentence,omitempty"`
}

type StartDailyChallengeRequest struct {
	ChallengeSize int `json:"challengeSize,omitempty" validate:"omitempty,min=1,max=100"`
}

type StartQuizResponse struct {
	SessionID string         `json:"sessionId"`
	Questions []QuestionView `json:"questions"`
}

type SubmitAnswerRequest struct {
	SessionID  string `json:"sessionId" validate:"required"`
	QuestionID string `json:"questionId" validate:"required"`
	Answer     string `json:"answer" validate:"required"`
}

type SubmitAnswerResponse struct {
	Correct       bool          `json:"correct"`
	CorrectAnswer string        `json:"correctAnswer"`
	Completed     bool          `json:"completed"`
	Results       *quiz.Results `json:"results,omitempty"`
	// ChallengeResult is the saved score when a daily challenge completes
	ChallengeResult *progress.ChallengeRecord `json:"challengeResult,omitempty"`
}

type GetStatisticsRequest struct{}

type GetStatisticsResponse struct {
	Statistics statistics.Summary `json:"statistics"`
}

func toQuestionView(question quiz.Question) QuestionView {
	return QuestionView{
		ID:              question.ID,
		Type:            question.Type,
		ExpressionID:    question.ExpressionID,
		Prompt:          question.Prompt,
		Options:         question.Options,
		BlankedSentence: question.BlankedSentence,
	}
}
