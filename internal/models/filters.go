package models

// CandidateFilters narrows the candidate pool for suggestions and browsing.
// Zero values mean "no constraint".
type CandidateFilters struct {
	Gender           string
	CollegeID        string
	MinAge           *int
	MaxAge           *int
	MinScore         *float64
	MaxScore         *float64
	Interests        []string
	HasMutualFriends bool
}
