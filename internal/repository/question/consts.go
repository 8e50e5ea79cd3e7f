package question

import "time"

const (
	// collection name
	questionNode  string = "questions"
	essentialNode string = "essentialQuestions"

	// the single document holding the essential ordering
	essentialDocId string = "essentialQuestionsId"

	// Fields' name and path
	IdFieldPath          string = "questionID"
	CategoryFieldPath    string = "category"
	ContentFieldPath     string = "content"
	FixedOrderFieldPath  string = "fixedOrder"
	RandomOrderFieldPath string = "randomOrder"

	// It must not exceed the write timeout of the database.firestore.notifyOnChanges
	channelWriteTimeout time.Duration = time.Second * 3
)
