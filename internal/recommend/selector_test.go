package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	ierr "go-firestore-qna/internal/errors"
	"go-firestore-qna/internal/model"
)

type stubQuestions struct {
	catalog         []model.Question
	answered        map[int]bool
	order           model.EssentialQuestions
	unansweredCalls int
	orderCalls      int
}

func (s *stubQuestions) ListUnanswered(_ context.Context, _ string, _ *string) ([]model.Question, error) {
	s.unansweredCalls++
	out := []model.Question{}
	for _, q := range s.catalog {
		if !s.answered[q.Id] {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *stubQuestions) GetById(_ context.Context, id int) (model.Question, error) {
	for _, q := range s.catalog {
		if q.Id == id {
			return q, nil
		}
	}
	return model.Question{}, ierr.NotFound
}

func (s *stubQuestions) LoadEssentialOrder(context.Context) (model.EssentialQuestions, error) {
	s.orderCalls++
	return s.order, nil
}

type memStore struct {
	selections map[string]Selection
	saves      int
}

func (m *memStore) LoadSelection(_ context.Context, userId string) (Selection, error) {
	s, ok := m.selections[userId]
	if !ok {
		return Selection{}, ierr.NotFound
	}
	return s, nil
}

func (m *memStore) SaveSelection(_ context.Context, userId string, s Selection) error {
	if m.selections == nil {
		m.selections = map[string]Selection{}
	}
	m.selections[userId] = s
	m.saves++
	return nil
}

func catalogOf(ids ...int) []model.Question {
	qs := []model.Question{}
	for _, id := range ids {
		qs = append(qs, model.Question{Id: id})
	}
	return qs
}

func firstIndex(int) int { return 0 }

func TestChooseFixedOrderFirst(t *testing.T) {
	order := model.EssentialQuestions{FixedOrder: []int{5, 2, 9}, RandomOrder: []int{1}}
	q, err := Choose(order, catalogOf(9, 2, 1), firstIndex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Id != 2 {
		t.Fatalf("expected question 2, got %d", q.Id)
	}
}

func TestChooseRandomOrderFallback(t *testing.T) {
	order := model.EssentialQuestions{FixedOrder: []int{5}, RandomOrder: []int{8, 4, 3}}
	q, err := Choose(order, catalogOf(1, 3, 4), firstIndex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Id != 4 {
		t.Fatalf("expected question 4, got %d", q.Id)
	}
}

func TestChooseArbitraryMember(t *testing.T) {
	order := model.EssentialQuestions{FixedOrder: []int{5}, RandomOrder: []int{6}}
	pool := catalogOf(10, 11, 12)
	for i := range pool {
		q, err := Choose(order, pool, func(n int) int { return i % n })
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Id != pool[i].Id {
			t.Fatalf("expected question %d, got %d", pool[i].Id, q.Id)
		}
	}
}

func TestChooseExhaustedPool(t *testing.T) {
	_, err := Choose(model.EssentialQuestions{FixedOrder: []int{1}}, nil, firstIndex)
	if !errors.Is(err, ierr.ExhaustedPool) {
		t.Fatalf("expected ExhaustedPool, got %v", err)
	}
}

func TestSelectDailyScenario(t *testing.T) {
	qs := &stubQuestions{
		catalog:  catalogOf(2, 5, 9),
		answered: map[int]bool{5: true},
		order:    model.EssentialQuestions{FixedOrder: []int{5, 2, 9}},
	}
	store := &memStore{}
	s := New(qs, store, 9*time.Hour).WithPicker(firstIndex)

	now := time.Date(2026, 10, 16, 1, 0, 0, 0, time.UTC)
	q, err := s.SelectDaily(context.Background(), model.User{Id: "u1"}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Id != 2 {
		t.Fatalf("expected question 2, got %d", q.Id)
	}

	saved := store.selections["u1"]
	if saved.QuestionId != 2 || !SameDay(saved.Day, Today(now, 9*time.Hour)) {
		t.Fatalf("unexpected saved selection %+v", saved)
	}
}

func TestSelectDailyStableWithinDay(t *testing.T) {
	qs := &stubQuestions{
		catalog:  catalogOf(1, 2, 3),
		answered: map[int]bool{},
		order:    model.EssentialQuestions{FixedOrder: []int{3}},
	}
	store := &memStore{}
	s := New(qs, store, 9*time.Hour).WithPicker(firstIndex)
	user := model.User{Id: "u1"}

	// 15:30 UTC is already the next day with the +9h offset, so stay before it
	morning := time.Date(2026, 10, 16, 0, 30, 0, 0, time.UTC)
	evening := time.Date(2026, 10, 16, 14, 59, 0, 0, time.UTC)

	first, err := s.SelectDaily(context.Background(), user, morning)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// answering the question later that day must not change the pick
	qs.answered[3] = true
	second, err := s.SelectDaily(context.Background(), user, evening)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Id != second.Id {
		t.Fatalf("expected the same question, got %d and %d", first.Id, second.Id)
	}
	if qs.unansweredCalls != 1 || qs.orderCalls != 1 {
		t.Fatalf("expected a single recompute, got %d unanswered and %d order fetches", qs.unansweredCalls, qs.orderCalls)
	}
	if store.saves != 1 {
		t.Fatalf("expected a single save, got %d", store.saves)
	}
}

func TestSelectDailyRecomputesOnNewDay(t *testing.T) {
	qs := &stubQuestions{
		catalog:  catalogOf(1, 2),
		answered: map[int]bool{},
		order:    model.EssentialQuestions{FixedOrder: []int{1, 2}},
	}
	store := &memStore{}
	s := New(qs, store, 9*time.Hour).WithPicker(firstIndex)
	user := model.User{Id: "u1"}

	day1 := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	q1, _ := s.SelectDaily(context.Background(), user, day1)

	qs.answered[q1.Id] = true
	// 15:00 UTC + 9h crosses into the next calendar day
	q2, err := s.SelectDaily(context.Background(), user, time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q1.Id != 1 || q2.Id != 2 {
		t.Fatalf("expected 1 then 2, got %d then %d", q1.Id, q2.Id)
	}
	if qs.unansweredCalls != 2 {
		t.Fatalf("expected two recomputes, got %d", qs.unansweredCalls)
	}
}

func TestSelectDailyRecomputesWhenStoredQuestionIsGone(t *testing.T) {
	now := time.Date(2026, 10, 16, 3, 0, 0, 0, time.UTC)
	qs := &stubQuestions{
		catalog:  catalogOf(4),
		answered: map[int]bool{},
	}
	store := &memStore{selections: map[string]Selection{"u1": {QuestionId: 99, Day: Today(now, 9*time.Hour)}}}
	s := New(qs, store, 9*time.Hour).WithPicker(firstIndex)

	q, err := s.SelectDaily(context.Background(), model.User{Id: "u1"}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Id != 4 {
		t.Fatalf("expected question 4, got %d", q.Id)
	}
}

func TestSelectDailyExhausted(t *testing.T) {
	qs := &stubQuestions{catalog: catalogOf(1), answered: map[int]bool{1: true}}
	s := New(qs, &memStore{}, 9*time.Hour)

	_, err := s.SelectDaily(context.Background(), model.User{Id: "u1"}, time.Now())
	if !errors.Is(err, ierr.ExhaustedPool) {
		t.Fatalf("expected ExhaustedPool, got %v", err)
	}
}

// blockingStore holds LoadSelection until release is closed and reports the ctx state on save.
type blockingStore struct {
	memStore
	entered chan struct{}
	release chan struct{}
	saved   chan error
}

func (b *blockingStore) LoadSelection(ctx context.Context, userId string) (Selection, error) {
	close(b.entered)
	<-b.release
	return b.memStore.LoadSelection(ctx, userId)
}

func (b *blockingStore) SaveSelection(ctx context.Context, userId string, s Selection) error {
	err := b.memStore.SaveSelection(ctx, userId, s)
	b.saved <- ctx.Err()
	return err
}

func TestSelectDailySurvivesFirstCallerCancel(t *testing.T) {
	qs := &stubQuestions{catalog: catalogOf(4, 7), order: model.EssentialQuestions{FixedOrder: []int{7}}}
	store := &blockingStore{entered: make(chan struct{}), release: make(chan struct{}), saved: make(chan error, 1)}
	s := New(qs, store, 9*time.Hour).WithPicker(firstIndex)
	now := time.Date(2026, 10, 16, 1, 0, 0, 0, time.UTC)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.SelectDaily(ctx, model.User{Id: "u1"}, now)
		done <- err
	}()

	<-store.entered
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the cancelled caller to stop waiting, got %v", err)
	}
	close(store.release)

	select {
	case err := <-store.saved:
		if err != nil {
			t.Fatalf("expected the shared selection to run on a live context, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected the selection to be saved after the first caller left")
	}
	if store.selections["u1"].QuestionId != 7 {
		t.Fatalf("expected question 7 to be stored, got %+v", store.selections["u1"])
	}
}
