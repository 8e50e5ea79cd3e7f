package reveal

import (
	"encoding/json"
	"errors"

	ierr "go-firestore-qna/internal/errors"
	"go-firestore-qna/internal/model"
)

type LookupStatus int

const (
	Absent LookupStatus = iota
	Found
	FetchFailed
)

// Lookup is the outcome of fetching one user's answer to a question.
// Only a NotFound miss counts as Absent, every other failure is FetchFailed.
type Lookup struct {
	Status LookupStatus
	Answer model.Answer
	Err    error
}

func LookupFrom(answer model.Answer, err error) Lookup {
	switch {
	case err == nil:
		return Lookup{Status: Found, Answer: answer}
	case errors.Is(err, ierr.NotFound):
		return Lookup{Status: Absent}
	default:
		return Lookup{Status: FetchFailed, Err: err}
	}
}

type AnswerStatus string

const (
	Unconnected AnswerStatus = "unconnected"
	NotAnswered AnswerStatus = "notAnswered"
	Answered    AnswerStatus = "answered"
)

type ReactionPhase string

const (
	Waiting    ReactionPhase = "waiting"
	Unlockable ReactionPhase = "unlockable"
	Locked     ReactionPhase = "locked"
)

// ReactionState is either NoReaction(phase) or Reacted(value).
type ReactionState struct {
	reacted bool
	value   model.ReactionType
	phase   ReactionPhase
}

func NoReaction(phase ReactionPhase) ReactionState {
	return ReactionState{phase: phase}
}

func Reacted(value model.ReactionType) ReactionState {
	return ReactionState{reacted: true, value: value}
}

func (s ReactionState) IsReacted() bool {
	return s.reacted
}

// Value is ReactionNone unless the state is Reacted.
func (s ReactionState) Value() model.ReactionType {
	return s.value
}

// Phase is empty for a Reacted state.
func (s ReactionState) Phase() ReactionPhase {
	return s.phase
}

func (s ReactionState) String() string {
	if s.reacted {
		return "reacted(" + s.value.String() + ")"
	}
	return "noReaction(" + string(s.phase) + ")"
}

func (s ReactionState) MarshalJSON() ([]byte, error) {
	if s.reacted {
		return json.Marshal(struct {
			Reacted bool               `json:"reacted"`
			Value   model.ReactionType `json:"value"`
		}{true, s.value})
	}
	return json.Marshal(struct {
		Reacted bool          `json:"reacted"`
		Phase   ReactionPhase `json:"phase"`
	}{false, s.phase})
}

type Illustration string

const (
	IllustrationCommunicate Illustration = "5_Communicate"
	IllustrationLetsKnow    Illustration = "7_LetsKnow"
	IllustrationGood        Illustration = "6_Good"
	IllustrationLocked      Illustration = "A_Lock"
)
