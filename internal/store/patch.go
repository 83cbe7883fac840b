package store

import "github.com/studenton/studenton/internal/models"

// StudentPatch is a field-level partial update. Every field is a pointer:
// nil keeps the current value, while a pointer to the empty string clears
// the field.
type StudentPatch struct {
	Name             *string
	ParentPhone      *string
	ParentName       *string
	Grade            *string
	CurrentTeacherID *string
	BirthDate        *string
	Gender           *models.Gender
	SalvationDate    *string
	Address          *string
	ProfileImage     *string
}

func (p StudentPatch) apply(s *models.Student) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.ParentPhone != nil {
		s.ParentPhone = *p.ParentPhone
	}
	if p.ParentName != nil {
		s.ParentName = *p.ParentName
	}
	if p.Grade != nil {
		s.Grade = *p.Grade
	}
	if p.CurrentTeacherID != nil {
		s.CurrentTeacherID = *p.CurrentTeacherID
	}
	if p.BirthDate != nil {
		s.BirthDate = *p.BirthDate
	}
	if p.Gender != nil {
		s.Gender = *p.Gender
	}
	if p.SalvationDate != nil {
		s.SalvationDate = *p.SalvationDate
	}
	if p.Address != nil {
		s.Address = *p.Address
	}
	if p.ProfileImage != nil {
		s.ProfileImage = *p.ProfileImage
	}
}

type TeacherPatch struct {
	Name          *string
	PhoneNumber   *string
	AssignedGrade *string
	AssignedClass *string
	ProfileImage  *string
}

func (p TeacherPatch) apply(t *models.Teacher) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.PhoneNumber != nil {
		t.PhoneNumber = *p.PhoneNumber
	}
	if p.AssignedGrade != nil {
		t.AssignedGrade = *p.AssignedGrade
	}
	if p.AssignedClass != nil {
		t.AssignedClass = *p.AssignedClass
	}
	if p.ProfileImage != nil {
		t.ProfileImage = *p.ProfileImage
	}
}

// Ptr is a small helper for building patches.
func Ptr[T any](v T) *T { return &v }
