package models

import "time"

type Gender string

const (
	GenderMale   Gender = "남"
	GenderFemale Gender = "여"
)

type HistoryType string

const (
	HistoryPromotion     HistoryType = "PROMOTION"
	HistoryTeacherChange HistoryType = "TEACHER_CHANGE"
	HistoryNote          HistoryType = "NOTE"
)

// HistoryLog is one immutable audit entry on a student. For NOTE entries
// FromTeacherID carries the author and ToTeacherID stays empty.
type HistoryLog struct {
	Date          time.Time   `json:"date"`
	Type          HistoryType `json:"type"`
	FromTeacherID string      `json:"fromTeacherId,omitempty"`
	ToTeacherID   string      `json:"toTeacherId,omitempty"`
	Comment       string      `json:"comment"`
}

// Student is a tracked member. CurrentTeacherID references a Teacher by id;
// empty means unassigned. The reference is not owned: deleting the teacher
// leaves it dangling and readers must resolve it defensively.
type Student struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ParentPhone      string       `json:"parentPhone,omitempty"`
	ParentName       string       `json:"parentName,omitempty"`
	Grade            string       `json:"grade"`
	CurrentTeacherID string       `json:"currentTeacherId,omitempty"`
	BirthDate        string       `json:"birthDate,omitempty"`
	Gender           Gender       `json:"gender,omitempty"`
	SalvationDate    string       `json:"salvationDate,omitempty"`
	Address          string       `json:"address,omitempty"`
	ProfileImage     string       `json:"profileImage,omitempty"`
	History          []HistoryLog `json:"history"`
}
