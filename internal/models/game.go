package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	GameTypeGuessTheYear   = 1
	GameTypeImageGuess     = 2
	GameTypeFillInTheBlank = 3
)

func ValidGameType(t int) bool {
	return t >= GameTypeGuessTheYear && t <= GameTypeFillInTheBlank
}

type GameOption struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	Text       string    `json:"text"`
	IsCorrect  bool      `json:"is_correct"`
}

type GameQuestion struct {
	ID        uuid.UUID    `json:"id"`
	Title     string       `json:"title"`
	GameType  int          `json:"game_type"`
	ImageKey  string       `json:"-"`
	ImageURL  string       `json:"image_url"`
	StoryID   *uuid.UUID   `json:"story_id"`
	Options   []GameOption `json:"options"`
	CreatedAt time.Time    `json:"created_at"`
}

type GameQuestionUpdate struct {
	Title    *string
	GameType *int
	StoryID  *uuid.UUID
	ImageKey *string
	Options  []GameOption
}

type GameAttempt struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	GameID           uuid.UUID `json:"game_id"`
	SelectedOptionID uuid.UUID `json:"selected_option_id"`
	IsCorrect        bool      `json:"is_correct"`
	CreatedAt        time.Time `json:"created_at"`
}

type GameAttemptResult struct {
	Attempt         GameAttempt      `json:"attempt"`
	IsCorrect       bool             `json:"is_correct"`
	PointsEarned    int              `json:"points_earned"`
	CorrectOptionID uuid.UUID        `json:"correct_option_id"`
	BadgeUpdates    *BadgeEvaluation `json:"badge_updates,omitempty"`
}

type GameQuestionPage struct {
	Total int            `json:"total"`
	Items []GameQuestion `json:"items"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
	Pages int            `json:"pages"`
}
