package model

import "time"

type Answer struct {
	Id           string       `firestore:"-" json:"answerId"` // it is the doc id, not a field
	QuestionId   int          `firestore:"questionId" json:"questionId"`
	UserId       string       `firestore:"userId" json:"userId"`
	Content      string       `firestore:"answerContent" json:"content"`
	Date         time.Time    `firestore:"date" json:"date"`
	ReactionType ReactionType `firestore:"reactionType" json:"reactionType"`
	IsComplete   *bool        `firestore:"isComplete,omitempty" json:"isComplete,omitempty"`
}
