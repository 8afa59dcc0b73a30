// Course model definitions

package models

const DefaultCoursePicture = "🎵"

type Course struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Reviews     float64 `json:"reviews"`
	ReviewCount int     `json:"reviewCount"`
	Picture     string  `json:"picture"`
}

// EnrichedCourse is a course annotated with the requesting user's match result.
type EnrichedCourse struct {
	Course
	IsForYou          bool     `json:"isForYou"`
	MatchingInterests []string `json:"matchingInterests"`
}
