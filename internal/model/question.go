package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuestionStatus enumerates the lifecycle of a catalog question.
type QuestionStatus string

const (
	QuestionStatusDraft    QuestionStatus = "draft"
	QuestionStatusApproved QuestionStatus = "approved"
	QuestionStatusActive   QuestionStatus = "active"
)

// QuestionTopic enumerates the five operations-research topics.
type QuestionTopic string

const (
	TopicMonteCarlo             QuestionTopic = "monte_carlo"
	TopicMarkovChain            QuestionTopic = "markov_chain"
	TopicDynamicProgramming     QuestionTopic = "dynamic_programming"
	TopicProjectNetworkAnalysis QuestionTopic = "project_network_analysis"
	TopicGameTheory             QuestionTopic = "game_theory"
)

// Topics lists every valid question topic.
var Topics = []QuestionTopic{
	TopicMonteCarlo,
	TopicMarkovChain,
	TopicDynamicProgramming,
	TopicProjectNetworkAnalysis,
	TopicGameTheory,
}

// Question represents a single catalog question. Students only ever see
// approved or active questions, and never the answer key.
type Question struct {
	ID              int             `json:"id"`
	Topic           QuestionTopic   `json:"topic"`
	QuestionText    string          `json:"question_text"`
	AnswerKey       *string         `json:"answer_key,omitempty"`
	MaxScore        decimal.Decimal `json:"max_score"`
	Status          QuestionStatus  `json:"status"`
	IsAutoGenerated bool            `json:"is_auto_generated"`
	CreatedBy       int             `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CreateQuestionRequest is the payload for authoring a question.
type CreateQuestionRequest struct {
	Topic        QuestionTopic   `json:"topic" binding:"required,oneof=monte_carlo markov_chain dynamic_programming project_network_analysis game_theory"`
	QuestionText string          `json:"question_text" binding:"required,min=1"`
	AnswerKey    *string         `json:"answer_key"`
	MaxScore     decimal.Decimal `json:"max_score" binding:"required"`
}

// UpdateQuestionRequest is the payload for editing a question. All fields
// are optional; absent fields keep their current value.
type UpdateQuestionRequest struct {
	Topic        *QuestionTopic   `json:"topic" binding:"omitempty,oneof=monte_carlo markov_chain dynamic_programming project_network_analysis game_theory"`
	QuestionText *string          `json:"question_text" binding:"omitempty,min=1"`
	AnswerKey    *string          `json:"answer_key"`
	Status       *QuestionStatus  `json:"status" binding:"omitempty,oneof=draft approved active"`
	MaxScore     *decimal.Decimal `json:"max_score"`
}

// GenerateQuestionsRequest is the payload for template-based generation.
type GenerateQuestionsRequest struct {
	Topic    QuestionTopic    `json:"topic" binding:"required,oneof=monte_carlo markov_chain dynamic_programming project_network_analysis game_theory"`
	Count    int              `json:"count" binding:"required,min=1,max=10"`
	MaxScore *decimal.Decimal `json:"max_score"`
}
