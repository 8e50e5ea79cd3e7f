package user

const (
	// collection name
	userNode string = "users"

	// Fields' name and path
	IdFieldPath           string = "userId"
	NameFieldPath         string = "name"
	SexFieldPath          string = "sex"
	MarriageDateFieldPath string = "marriageDate"
	FianceFieldPath       string = "fiance"
)
