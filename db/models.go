package db

// Department is a subject area offering courses, e.g. CSCI "Computer
// Science".
type Department struct {
	Code string
	Name string
}
