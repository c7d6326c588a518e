package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	QuizPointsPerCorrect    = 10
	QuizCompletionBonus     = 25
	StoryFirstViewPoints    = 5
	GameCorrectPoints       = 5
	QuizAlreadyCompletedMsg = "Quiz already completed"
)

type Option struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	Text       string    `json:"text"`
	IsCorrect  *bool     `json:"is_correct,omitempty"`
}

type Question struct {
	ID      uuid.UUID `json:"id"`
	QuizID  uuid.UUID `json:"quiz_id"`
	Text    string    `json:"text"`
	Options []Option  `json:"options"`
}

type Quiz struct {
	ID        uuid.UUID  `json:"id"`
	StoryID   uuid.UUID  `json:"story_id"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"created_at"`
}

// HideAnswers strips correctness flags.
func (q *Quiz) HideAnswers() {
	for i := range q.Questions {
		for j := range q.Questions[i].Options {
			q.Questions[i].Options[j].IsCorrect = nil
		}
	}
}

type QuizAttempt struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	QuizID      uuid.UUID  `json:"quiz_id"`
	Completed   bool       `json:"completed"`
	Score       int        `json:"score"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

type QuizHistoryEntry struct {
	QuizAttempt
	StoryID    uuid.UUID `json:"story_id"`
	StoryTitle string    `json:"story_title"`
}

type QuizAnswer struct {
	QuestionID       uuid.UUID `json:"question_id" binding:"required"`
	SelectedOptionID uuid.UUID `json:"selected_option_id" binding:"required"`
}

type QuizResult struct {
	Message         string           `json:"message,omitempty"`
	TotalQuestions  int              `json:"total_questions"`
	CorrectAnswers  int              `json:"correct_answers"`
	PointsEarned    int              `json:"points_earned"`
	CompletionBonus int              `json:"completion_bonus"`
	NewTotalPoints  int              `json:"new_total_points"`
	BadgeUpdates    *BadgeEvaluation `json:"badge_updates,omitempty"`
}
