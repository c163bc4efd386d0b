// Package academic holds the subject catalog and exam result records.
package academic

// Subject is an entry of the fixed subject catalog.
type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Subjects is the static catalog. It is not user-editable.
var Subjects = []Subject{
	{ID: "1", Name: "Mathematics", Code: "MATH"},
	{ID: "2", Name: "English", Code: "ENG"},
	{ID: "3", Name: "Kiswahili", Code: "KIS"},
	{ID: "4", Name: "Science", Code: "SCI"},
	{ID: "5", Name: "Social Studies", Code: "SST"},
	{ID: "6", Name: "Religious Education", Code: "RE"},
	{ID: "7", Name: "Physical Education", Code: "PE"},
	{ID: "8", Name: "Creative Arts", Code: "CA"},
}

// SubjectByID looks a subject up in the catalog.
func SubjectByID(id string) (Subject, bool) {
	for _, s := range Subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}
