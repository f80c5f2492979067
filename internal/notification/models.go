package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CategoryLessonReminder  = "lesson_reminder"
	CategoryUnpaidLesson    = "unpaid_lesson"
	CategoryMorningBriefing = "morning_briefing"
	CategoryIncomeReport    = "income_report"
	CategoryEveningSummary  = "evening_summary"
	CategoryMissingLessons  = "missing_lessons"
	CategoryStudentDebts    = "student_debts"
)

// Notification is both the inbox entry and the dedupe record: the existence
// of a row with a given (user, category, key) is what makes every rule fire
// at most once. Rows with an empty message are internal markers and never
// shown in the inbox.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Category  string             `bson:"category" json:"category"`
	Key       string             `bson:"key" json:"key"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Link      string             `bson:"link,omitempty" json:"link,omitempty"`
	IsRead    bool               `bson:"is_read" json:"is_read"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Settings holds the per-user notification preferences. Created lazily with
// defaults the first time a user is processed.
type Settings struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"user_id" json:"user_id"`
	LessonReminders   bool               `bson:"lesson_reminders" json:"lesson_reminders"`
	UnpaidLessons     bool               `bson:"unpaid_lessons" json:"unpaid_lessons"`
	StatusChanges     bool               `bson:"status_changes" json:"status_changes"`
	IncomeReports     bool               `bson:"income_reports" json:"income_reports"`
	StudentDebts      bool               `bson:"student_debts" json:"student_debts"`
	MissingLessons    bool               `bson:"missing_lessons" json:"missing_lessons"`
	MorningBriefing   bool               `bson:"morning_briefing" json:"morning_briefing"`
	EveningSummary    bool               `bson:"evening_summary" json:"evening_summary"`
	OnboardingTips    bool               `bson:"onboarding_tips" json:"onboarding_tips"`
	DeliveryWeb       bool               `bson:"delivery_web" json:"delivery_web"`
	DeliveryTelegram  bool               `bson:"delivery_telegram" json:"delivery_telegram"`
	QuietHoursEnabled bool               `bson:"quiet_hours_enabled" json:"quiet_hours_enabled"`
	QuietHoursStart   string             `bson:"quiet_hours_start" json:"quiet_hours_start"`
	QuietHoursEnd     string             `bson:"quiet_hours_end" json:"quiet_hours_end"`
}

func DefaultSettings(userID primitive.ObjectID) *Settings {
	return &Settings{
		ID:                primitive.NewObjectID(),
		UserID:            userID,
		LessonReminders:   true,
		UnpaidLessons:     true,
		StatusChanges:     true,
		IncomeReports:     true,
		StudentDebts:      true,
		MissingLessons:    true,
		MorningBriefing:   true,
		EveningSummary:    true,
		OnboardingTips:    true,
		DeliveryWeb:       true,
		DeliveryTelegram:  false,
		QuietHoursEnabled: false,
		QuietHoursStart:   "22:00",
		QuietHoursEnd:     "08:00",
	}
}
