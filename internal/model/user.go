package model

import "time"

type User struct {
	Id           string     `firestore:"userId" json:"userId"`
	Name         *string    `firestore:"name,omitempty" json:"name,omitempty"`
	Sex          *bool      `firestore:"sex,omitempty" json:"sex,omitempty"` // true for men
	MarriageDate *time.Time `firestore:"marriageDate,omitempty" json:"marriageDate,omitempty"`
	FianceId     *string    `firestore:"fiance,omitempty" json:"fianceId,omitempty"`
}

func (u User) IsConnected() bool {
	return u.FianceId != nil && *u.FianceId != ""
}

type SexType string

const (
	Man   SexType = "man"
	Woman SexType = "woman"
)
