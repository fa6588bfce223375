package search

import "math/rand/v2"

// StarterSubjects are the subjects a fresh browser session may open with.
var StarterSubjects = []string{
	"fiction", "fantasy", "mystery", "science_fiction", "history",
	"romance", "thriller", "children", "biography", "science",
}

// RandomSubject picks one of StarterSubjects.
func RandomSubject() string {
	return StarterSubjects[rand.IntN(len(StarterSubjects))]
}
