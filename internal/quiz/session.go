package quiz

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrNoQuestions     = errors.New("quiz has no questions")
	ErrInvalidState    = errors.New("invalid quiz session state")
	ErrAlreadyAnswered = errors.New("question is already answered")
	ErrNotAnswered     = errors.New("question is not answered yet")
)

type State string

const (
	StateNotStarted State = "not-started"
	StateInProgress State = "in-progress"
	StateComplete   State = "complete"
)

// Session walks through the questions of one quiz. Abandoning a quiz is
// just dropping the session; nothing is persisted.
type Session struct {
	ID           string     `json:"id"`
	Questions    []Question `json:"questions"`
	CurrentIndex int        `json:"currentIndex"`
	Score        int        `json:"score"`
	State        State      `json:"state"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:    id,
		State: StateNotStarted,
	}
}

func (s *Session) Start(questions []Question, now time.Time) error {
	if s.State != StateNotStarted {
		return fmt.Errorf("%w: cannot start a session in state %s", ErrInvalidState, s.State)
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	s.Questions = questions
	s.CurrentIndex = 0
	s.Score = 0
	s.State = StateInProgress
	s.StartedAt = now
	return nil
}

func (s *Session) Current() (Question, error) {
	if s.State != StateInProgress {
		return Question{}, fmt.Errorf("%w: no current question in state %s", ErrInvalidState, s.State)
	}
	return s.Questions[s.CurrentIndex], nil
}

// Submit grades answer for the current question and records it.
func (s *Session) Submit(answer string) (bool, error) {
	if s.State != StateInProgress {
		return false, fmt.Errorf("%w: cannot answer in state %s", ErrInvalidState, s.State)
	}
	question := &s.Questions[s.CurrentIndex]
	if question.Answered {
		return false, fmt.Errorf("%w: %s", ErrAlreadyAnswered, question.ID)
	}

	correct, err := CheckAnswer(*question, answer)
	if err != nil {
		return false, err
	}
	question.Answered = true
	question.UserAnswer = answer
	question.IsCorrect = correct
	if correct {
		s.Score++
	}
	return correct, nil
}

// Next moves past an answered question. The session completes after the last one.
func (s *Session) Next(now time.Time) error {
	if s.State != StateInProgress {
		return fmt.Errorf("%w: cannot advance in state %s", ErrInvalidState, s.State)
	}
	if !s.Questions[s.CurrentIndex].Answered {
		return fmt.Errorf("%w: %s", ErrNotAnswered, s.Questions[s.CurrentIndex].ID)
	}

	s.CurrentIndex++
	if s.CurrentIndex >= len(s.Questions) {
		completedAt := now
		s.State = StateComplete
		s.CompletedAt = &completedAt
	}
	return nil
}

type Results struct {
	Total      int  `json:"total"`
	Correct    int  `json:"correct"`
	Percentage int  `json:"percentage"`
	Perfect    bool `json:"perfect"`
}

func (s *Session) Results() Results {
	total := len(s.Questions)
	results := Results{
		Total:   total,
		Correct: s.Score,
	}
	if total > 0 {
		results.Percentage = int(math.Round(float64(s.Score) / float64(total) * 100))
		results.Perfect = s.Score == total
	}
	return results
}
