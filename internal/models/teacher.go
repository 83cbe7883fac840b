package models

// Teacher is a homeroom candidate. AssignedGrade is the grade this teacher
// may take a class in; AssignedClass is the class label within it and is
// meaningful only when AssignedGrade is set.
type Teacher struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PhoneNumber   string `json:"phoneNumber,omitempty"`
	AssignedGrade string `json:"assignedGrade,omitempty"`
	AssignedClass string `json:"assignedClass,omitempty"`
	ProfileImage  string `json:"profileImage,omitempty"`
}
