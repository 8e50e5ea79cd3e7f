package reveal

import (
	"errors"
	"strings"
	"testing"
	"time"

	ierr "go-firestore-qna/internal/errors"
	"go-firestore-qna/internal/model"
)

var (
	ownSecret     = "own secret answer"
	partnerSecret = "partner secret answer"
)

func found(id, content string, reaction model.ReactionType, date time.Time) Lookup {
	return Lookup{Status: Found, Answer: model.Answer{Id: id, Content: content, ReactionType: reaction, Date: date}}
}

func absent() Lookup {
	return Lookup{Status: Absent}
}

func mustEvaluate(t *testing.T, in Input) View {
	t.Helper()
	v, err := Evaluate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return v
}

func TestLookupFrom(t *testing.T) {
	if l := LookupFrom(model.Answer{Id: "a"}, nil); l.Status != Found || l.Answer.Id != "a" {
		t.Fatalf("expected Found, got %+v", l)
	}
	if l := LookupFrom(model.Answer{}, ierr.NotFound); l.Status != Absent {
		t.Fatalf("expected Absent for NotFound, got %+v", l)
	}
	boom := errors.New("boom")
	if l := LookupFrom(model.Answer{}, boom); l.Status != FetchFailed || !errors.Is(l.Err, boom) {
		t.Fatalf("expected FetchFailed, got %+v", l)
	}
}

func TestBothPositiveIsGood(t *testing.T) {
	now := time.Now()
	v := mustEvaluate(t, Input{
		Own:       found("a1", ownSecret, model.ReactionGood, now),
		Partner:   found("a2", partnerSecret, model.ReactionGood, now),
		Connected: true,
	})

	if v.Illustration != IllustrationGood {
		t.Fatalf("expected %s, got %s", IllustrationGood, v.Illustration)
	}
	if !v.BothPositive || !v.AnswersDone {
		t.Fatalf("expected both positive and answers done, got %+v", v)
	}
	if v.PartnerContent != partnerSecret || v.PartnerReaction != Reacted(model.ReactionGood) {
		t.Fatalf("expected the partner answer and reaction revealed, got %q %s", v.PartnerContent, v.PartnerReaction)
	}
}

func TestIllustrationPriority(t *testing.T) {
	cases := []struct {
		own, partner model.ReactionType
		want         Illustration
	}{
		{model.ReactionMoreCommunication, model.ReactionMoreResearch, IllustrationCommunicate},
		{model.ReactionGood, model.ReactionMoreCommunication, IllustrationCommunicate},
		{model.ReactionMoreResearch, model.ReactionGood, IllustrationLetsKnow},
		{model.ReactionGood, model.ReactionGood, IllustrationGood},
		{model.ReactionNone, model.ReactionGood, IllustrationLocked},
		{model.ReactionGood, model.ReactionNone, IllustrationLocked},
	}

	for _, c := range cases {
		v := mustEvaluate(t, Input{
			Own:       found("a1", ownSecret, c.own, time.Now()),
			Partner:   found("a2", partnerSecret, c.partner, time.Now()),
			Connected: true,
		})
		if v.Illustration != c.want {
			t.Fatalf("own=%s partner=%s: expected %s, got %s", c.own, c.partner, c.want, v.Illustration)
		}
	}
}

func TestPartnerContentLockedUntilOwnAnswer(t *testing.T) {
	partners := []struct {
		lookup    Lookup
		connected bool
	}{
		{absent(), false},
		{found("a2", partnerSecret, model.ReactionGood, time.Now()), false},
		{absent(), true},
		{found("a2", partnerSecret, model.ReactionNone, time.Now()), true},
		{found("a2", partnerSecret, model.ReactionMoreResearch, time.Now()), true},
	}

	for i, p := range partners {
		v := mustEvaluate(t, Input{Own: absent(), Partner: p.lookup, Connected: p.connected, PartnerName: "Jin"})
		if strings.Contains(v.PartnerContent, partnerSecret) {
			t.Fatalf("case %d: partner answer leaked before own answer: %q", i, v.PartnerContent)
		}
		if v.PartnerReaction.IsReacted() {
			t.Fatalf("case %d: partner reaction leaked before own answer: %s", i, v.PartnerReaction)
		}
		if v.OwnReaction != NoReaction(Locked) {
			t.Fatalf("case %d: expected own reaction locked, got %s", i, v.OwnReaction)
		}
		if !strings.Contains(v.OwnContent, "Jin") {
			t.Fatalf("case %d: expected the placeholder to name the partner, got %q", i, v.OwnContent)
		}
	}
}

func TestUnconnectedIgnoresStoredPartnerAnswer(t *testing.T) {
	v := mustEvaluate(t, Input{
		Own:       found("a1", ownSecret, model.ReactionGood, time.Now()),
		Partner:   found("a2", partnerSecret, model.ReactionGood, time.Now()),
		Connected: false,
	})

	if v.PartnerStatus != Unconnected {
		t.Fatalf("expected unconnected, got %s", v.PartnerStatus)
	}
	if v.PartnerContent != partnerUnconnectedText || v.PartnerReaction != NoReaction(Locked) {
		t.Fatalf("expected unconnected placeholders, got %q %s", v.PartnerContent, v.PartnerReaction)
	}
	if v.AnswersDone || v.BothPositive {
		t.Fatalf("an unconnected pair is never done, got %+v", v)
	}
}

func TestOwnReactionUnlockableOnlyWhenPartnerAnswered(t *testing.T) {
	v := mustEvaluate(t, Input{
		Own:       found("a1", ownSecret, model.ReactionNone, time.Now()),
		Partner:   absent(),
		Connected: true,
	})
	if v.OwnReaction != NoReaction(Locked) || v.PartnerReaction != NoReaction(Waiting) {
		t.Fatalf("expected locked/waiting, got %s/%s", v.OwnReaction, v.PartnerReaction)
	}
	if v.PartnerContent != partnerWaitingText {
		t.Fatalf("expected the waiting placeholder, got %q", v.PartnerContent)
	}

	v = mustEvaluate(t, Input{
		Own:       found("a1", ownSecret, model.ReactionNone, time.Now()),
		Partner:   found("a2", partnerSecret, model.ReactionGood, time.Now()),
		Connected: true,
	})
	if v.OwnReaction != NoReaction(Unlockable) {
		t.Fatalf("expected unlockable, got %s", v.OwnReaction)
	}
	if v.PartnerContent != partnerSecret {
		t.Fatalf("expected the partner answer once both answered, got %q", v.PartnerContent)
	}
	if v.PartnerReaction != NoReaction(Locked) {
		t.Fatalf("partner reaction must stay locked until own reaction, got %s", v.PartnerReaction)
	}
	if v.Illustration != IllustrationLocked {
		t.Fatalf("expected locked illustration, got %s", v.Illustration)
	}
}

func TestPartnerReactionWaitingAfterOwnReaction(t *testing.T) {
	v := mustEvaluate(t, Input{
		Own:       found("a1", ownSecret, model.ReactionGood, time.Now()),
		Partner:   found("a2", partnerSecret, model.ReactionNone, time.Now()),
		Connected: true,
	})
	if v.PartnerReaction != NoReaction(Waiting) {
		t.Fatalf("expected waiting, got %s", v.PartnerReaction)
	}
}

func TestRecentDateIsLatest(t *testing.T) {
	early := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)
	v := mustEvaluate(t, Input{
		Own:       found("a1", ownSecret, model.ReactionNone, early),
		Partner:   found("a2", partnerSecret, model.ReactionNone, late),
		Connected: true,
	})
	if v.RecentDate == nil || !v.RecentDate.Equal(late) {
		t.Fatalf("expected %s, got %v", late, v.RecentDate)
	}

	v = mustEvaluate(t, Input{Own: absent(), Partner: absent(), Connected: true})
	if v.RecentDate != nil {
		t.Fatalf("expected no date without answers, got %v", v.RecentDate)
	}
}

func TestFetchFailureIsNotAbsence(t *testing.T) {
	boom := errors.New("boom")
	_, err := Evaluate(Input{Own: Lookup{Status: FetchFailed, Err: boom}, Partner: absent(), Connected: true})
	if !errors.Is(err, boom) {
		t.Fatalf("expected own fetch failure, got %v", err)
	}

	_, err = Evaluate(Input{Own: absent(), Partner: Lookup{Status: FetchFailed, Err: boom}, Connected: true})
	if !errors.Is(err, boom) {
		t.Fatalf("expected partner fetch failure, got %v", err)
	}
}

func TestReactionStateJSON(t *testing.T) {
	b, _ := Reacted(model.ReactionMoreResearch).MarshalJSON()
	if string(b) != `{"reacted":true,"value":"moreResearch"}` {
		t.Fatalf("unexpected json %s", b)
	}
	b, _ = NoReaction(Unlockable).MarshalJSON()
	if string(b) != `{"reacted":false,"phase":"unlockable"}` {
		t.Fatalf("unexpected json %s", b)
	}
}
