// Interest and association model definitions

package models

// Interest is a categorized tag that users declare and courses are linked to.
type Interest struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// InterestRef is the id/name pair attached to a course when matching.
type InterestRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (i Interest) Ref() InterestRef { return InterestRef{ID: i.ID, Name: i.Name} }
