package notification

import (
	"TutorPlanner/internal/lesson"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestReminderDue_Window(t *testing.T) {
	now := time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)
	at := func(offset time.Duration) *lesson.Lesson {
		return &lesson.Lesson{ID: primitive.NewObjectID(), Date: now.Add(offset)}
	}

	if !reminderDue(at(44*time.Minute), now) {
		t.Fatal("lesson in 44min should trigger a reminder")
	}
	if reminderDue(at(46*time.Minute), now) {
		t.Fatal("lesson in 46min is outside the lead window")
	}
	if reminderDue(at(-time.Minute), now) {
		t.Fatal("a lesson already started must not trigger a reminder")
	}

	canceled := at(30 * time.Minute)
	canceled.IsCanceled = true
	if reminderDue(canceled, now) {
		t.Fatal("canceled lesson must not trigger a reminder")
	}
}

func TestUnpaidDue_Window(t *testing.T) {
	now := time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)
	endedAgo := func(ago time.Duration) *lesson.Lesson {
		// 60min default duration; start so the lesson ended `ago` ago
		return &lesson.Lesson{
			ID:    primitive.NewObjectID(),
			Date:  now.Add(-ago - 60*time.Minute),
			Price: 1000,
		}
	}

	if unpaidDue(endedAgo(4*time.Minute), now) {
		t.Fatal("4min after the end is inside the grace period")
	}
	if !unpaidDue(endedAgo(6*time.Minute), now) {
		t.Fatal("6min after the end should trigger the unpaid nag")
	}
	if unpaidDue(endedAgo(8*24*time.Hour), now) {
		t.Fatal("a lesson ended 8 days ago is outside the lookback")
	}

	paid := endedAgo(time.Hour)
	paid.IsPaid = true
	if unpaidDue(paid, now) {
		t.Fatal("paid lesson must not trigger")
	}

	free := endedAgo(time.Hour)
	free.Price = 0
	if unpaidDue(free, now) {
		t.Fatal("zero-price lesson must not trigger")
	}

	canceled := endedAgo(time.Hour)
	canceled.IsCanceled = true
	if unpaidDue(canceled, now) {
		t.Fatal("canceled lesson must not trigger")
	}
}

func TestResultAdd_Deduplicates(t *testing.T) {
	var r Result
	r.add(CategoryLessonReminder)
	r.add(CategoryLessonReminder)
	r.add(CategoryUnpaidLesson)
	if len(r.Created) != 2 {
		t.Fatalf("want 2 categories, got %v", r.Created)
	}
}
