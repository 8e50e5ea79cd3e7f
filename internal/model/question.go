package model

type Question struct {
	Id       int    `firestore:"questionID" json:"questionId"`
	Category string `firestore:"category" json:"category"`
	Content  string `firestore:"content" json:"content"`
}

// EssentialQuestions holds the question ids preferred by the daily recommendation.
// FixedOrder is scanned before RandomOrder.
type EssentialQuestions struct {
	FixedOrder  []int `firestore:"fixedOrder" json:"fixedOrder"`
	RandomOrder []int `firestore:"randomOrder" json:"randomOrder"`
}
