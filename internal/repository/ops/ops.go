package ops

// Firestore query operators
const (
	Equal   string = "=="
	In      string = "in"
	Greater string = ">"
	Less    string = "<"
)

// MaxInValues is the largest number of values Firestore accepts in an "in" filter.
const MaxInValues = 30
