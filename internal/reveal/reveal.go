// Package reveal decides which parts of a couple's answers to a question each partner may see.
// A partner's answer and reaction stay hidden until the user answered the same question.
package reveal

import (
	"fmt"
	"time"

	"go-firestore-qna/internal/model"
)

const (
	defaultPartnerName = "your partner"

	ownLockedText          = "To see %s's answer, write your own answer too."
	partnerUnconnectedText = "You are not connected with a partner yet. Once connected, you can write your own Q&A together."
	partnerWaitingText     = "Waiting for your partner's answer. We will notify you once it is written."
	partnerLockedText      = "Locked!"
)

type Input struct {
	Own     Lookup
	Partner Lookup
	// Connected is false when the user has no partner id.
	Connected   bool
	PartnerName string
}

type View struct {
	OwnStatus       AnswerStatus  `json:"ownStatus"`
	PartnerStatus   AnswerStatus  `json:"partnerStatus"`
	OwnContent      string        `json:"ownContent"`
	PartnerContent  string        `json:"partnerContent"`
	OwnReaction     ReactionState `json:"ownReaction"`
	PartnerReaction ReactionState `json:"partnerReaction"`
	OwnAnswerId     string        `json:"ownAnswerId,omitempty"`
	PartnerAnswerId string        `json:"-"`
	BothPositive    bool          `json:"bothPositive"`
	Illustration    Illustration  `json:"illustration"`
	AnswersDone     bool          `json:"answersDone"`
	RecentDate      *time.Time    `json:"recentDate,omitempty"`
}

// Evaluate derives the view from both lookups. A FetchFailed lookup is returned as an error:
// a failed fetch is never shown as a missing answer.
func Evaluate(in Input) (View, error) {
	if in.Own.Status == FetchFailed {
		return View{}, fmt.Errorf("own answer: %w", in.Own.Err)
	}
	if in.Connected && in.Partner.Status == FetchFailed {
		return View{}, fmt.Errorf("partner answer: %w", in.Partner.Err)
	}

	partnerName := in.PartnerName
	if partnerName == "" {
		partnerName = defaultPartnerName
	}

	v := View{
		OwnStatus:     NotAnswered,
		PartnerStatus: Unconnected,
	}

	if in.Own.Status == Found {
		v.OwnStatus = Answered
		v.OwnAnswerId = in.Own.Answer.Id
	}
	if in.Connected {
		v.PartnerStatus = NotAnswered
		if in.Partner.Status == Found {
			v.PartnerStatus = Answered
			v.PartnerAnswerId = in.Partner.Answer.Id
		}
	}

	// own side
	switch {
	case v.OwnStatus != Answered:
		v.OwnContent = fmt.Sprintf(ownLockedText, partnerName)
		v.OwnReaction = NoReaction(Locked)
	case in.Own.Answer.ReactionType == model.ReactionNone:
		v.OwnContent = in.Own.Answer.Content
		if v.PartnerStatus == Answered {
			v.OwnReaction = NoReaction(Unlockable)
		} else {
			v.OwnReaction = NoReaction(Locked)
		}
	default:
		v.OwnContent = in.Own.Answer.Content
		v.OwnReaction = Reacted(in.Own.Answer.ReactionType)
	}

	// partner side
	switch v.PartnerStatus {
	case Unconnected:
		v.PartnerContent = partnerUnconnectedText
		v.PartnerReaction = NoReaction(Locked)
	case NotAnswered:
		v.PartnerContent = partnerWaitingText
		v.PartnerReaction = NoReaction(Waiting)
	case Answered:
		if v.OwnStatus == Answered {
			v.PartnerContent = in.Partner.Answer.Content
		} else {
			v.PartnerContent = partnerLockedText
		}

		partnerReaction := in.Partner.Answer.ReactionType
		switch {
		case !v.OwnReaction.IsReacted():
			v.PartnerReaction = NoReaction(Locked)
		case partnerReaction == model.ReactionNone:
			v.PartnerReaction = NoReaction(Waiting)
		default:
			v.PartnerReaction = Reacted(partnerReaction)
		}
	}

	v.BothPositive = bothPositive(v, in)
	v.Illustration = CoupleIllustration(v.OwnReaction, v.PartnerReaction)
	v.AnswersDone = v.OwnStatus == Answered && v.PartnerStatus == Answered
	v.RecentDate = recentDate(v, in)

	return v, nil
}

func bothPositive(v View, in Input) bool {
	if v.OwnStatus != Answered || v.PartnerStatus != Answered {
		return false
	}
	return in.Own.Answer.ReactionType.IsPositive() && in.Partner.Answer.ReactionType.IsPositive()
}

// CoupleIllustration picks the picture shown for the pair of reactions.
func CoupleIllustration(own, partner ReactionState) Illustration {
	if !own.IsReacted() || !partner.IsReacted() {
		return IllustrationLocked
	}
	if !own.Value().IsPositive() || !partner.Value().IsPositive() {
		return IllustrationLocked
	}

	mentions := func(r model.ReactionType) bool {
		return own.Value() == r || partner.Value() == r
	}
	switch {
	case mentions(model.ReactionMoreCommunication):
		return IllustrationCommunicate
	case mentions(model.ReactionMoreResearch):
		return IllustrationLetsKnow
	default:
		return IllustrationGood
	}
}

func recentDate(v View, in Input) *time.Time {
	var latest time.Time
	if v.OwnStatus == Answered {
		latest = in.Own.Answer.Date
	}
	if v.PartnerStatus == Answered && in.Partner.Answer.Date.After(latest) {
		latest = in.Partner.Answer.Date
	}
	if latest.IsZero() {
		return nil
	}
	return &latest
}
