package course

// Course is the only record the service manages. ID is assigned by the
// store and never changes; Name is the only mutable field.
type Course struct {
	ID   int    `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// Seed returns the collection every store starts from.
func Seed() []Course {
	return []Course{
		{ID: 1, Name: "course1"},
		{ID: 2, Name: "course2"},
		{ID: 3, Name: "course3"},
	}
}
