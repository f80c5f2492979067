package lesson

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultDurationMin = 60

// GroupPayment is the per-student payment record of a group lesson.
type GroupPayment struct {
	StudentID primitive.ObjectID `bson:"student_id"`
	HasPaid   bool               `bson:"has_paid"`
	Price     float64            `bson:"price"`
}

// Lesson is a single scheduled lesson, either 1:1 (StudentID set) or a group
// lesson (GroupID set). Exactly one of the two identifies the audience.
type Lesson struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID     primitive.ObjectID `bson:"owner_id"`
	StudentID   primitive.ObjectID `bson:"student_id,omitempty"`
	GroupID     primitive.ObjectID `bson:"group_id,omitempty"`
	Subject     string             `bson:"subject,omitempty"`
	Date        time.Time          `bson:"date"`
	DurationMin int                `bson:"duration_min"`
	Price       float64            `bson:"price"`
	IsPaid      bool               `bson:"is_paid"`
	IsCanceled  bool               `bson:"is_canceled"`
	IsTrial     bool               `bson:"is_trial"`
	Payments    []GroupPayment     `bson:"payments,omitempty"`
}

func (l *Lesson) HasStudent() bool {
	return !l.StudentID.IsZero()
}

func (l *Lesson) HasGroup() bool {
	return !l.GroupID.IsZero()
}

func (l *Lesson) Duration() time.Duration {
	min := l.DurationMin
	if min == 0 {
		min = defaultDurationMin
	}
	return time.Duration(min) * time.Minute
}

// EndsAt is the lesson's end instant (start plus duration).
func (l *Lesson) EndsAt() time.Time {
	return l.Date.Add(l.Duration())
}

// Income is the money earned on this lesson: the full price for a paid 1:1
// lesson, the price times the number of paid-up students for a group lesson.
func (l *Lesson) Income() float64 {
	if l.HasGroup() {
		paid := 0
		for _, p := range l.Payments {
			if p.HasPaid {
				paid++
			}
		}
		return l.Price * float64(paid)
	}
	if l.IsPaid {
		return l.Price
	}
	return 0
}

type LessonRequest struct {
	StudentID   string    `json:"student_id"`
	GroupID     string    `json:"group_id"`
	Subject     string    `json:"subject"`
	Date        time.Time `json:"date"`
	DurationMin int       `json:"duration_min"`
	Price       float64   `json:"price"`
	IsTrial     bool      `json:"is_trial"`
}
