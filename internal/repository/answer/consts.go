package answer

const (
	// collection name
	userNode   string = "users"
	answerNode string = "answers"

	// Fields' name and path
	QuestionIdFieldPath   string = "questionId"
	UserIdFieldPath       string = "userId"
	ContentFieldPath      string = "answerContent"
	DateFieldPath         string = "date"
	ReactionTypeFieldPath string = "reactionType"
	IsCompleteFieldPath   string = "isComplete"
)
