package notification

import (
	"TutorPlanner/internal/auth"
	"TutorPlanner/internal/lesson"
	"TutorPlanner/internal/student"
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The service reads users, rosters and lessons through these narrow
// interfaces so the evaluators can be exercised against in-memory fixtures.

type UserDirectory interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*auth.User, error)
	ListIDs(ctx context.Context) ([]primitive.ObjectID, error)
}

type StudentDirectory interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*student.Student, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*student.Student, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*student.Student, error)
	FindGroupByID(ctx context.Context, id primitive.ObjectID) (*student.Group, error)
	ListGroupsByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*student.Group, error)
	GroupsContaining(ctx context.Context, studentIDs []primitive.ObjectID) ([]*student.Group, error)
}

type LessonSource interface {
	UpcomingBetween(ctx context.Context, aud lesson.Audience, from, to time.Time) ([]*lesson.Lesson, error)
	UnpaidBetween(ctx context.Context, aud lesson.Audience, from, to time.Time) ([]*lesson.Lesson, error)
	OnDay(ctx context.Context, ownerID primitive.ObjectID, dayStart, dayEnd time.Time) ([]*lesson.Lesson, error)
	CountFuture(ctx context.Context, studentID primitive.ObjectID, groupIDs []primitive.ObjectID, after time.Time) (int64, error)
	PastByOwner(ctx context.Context, ownerID primitive.ObjectID, before time.Time) ([]*lesson.Lesson, error)
}

type Ledger interface {
	HasFired(ctx context.Context, userID primitive.ObjectID, category, key string) (bool, error)
	Record(ctx context.Context, n *Notification) (bool, error)
	GetOrCreateSettings(ctx context.Context, userID primitive.ObjectID) (*Settings, error)
}

type Channel interface {
	Send(user *auth.User, settings *Settings, localNow time.Time, message string) bool
}

// NotificationService decides, per user per run, which notification rules
// fire now. Every rule is idempotent through the dedupe ledger, so the
// service is safe to invoke on every scheduler tick and on every client
// self-check.
type NotificationService struct {
	users    UserDirectory
	students StudentDirectory
	lessons  LessonSource
	ledger   Ledger
	channel  Channel
	clock    func() time.Time
}

func NewNotificationService(users *auth.UserRepository, students *student.StudentRepository, lessons *lesson.LessonRepository, repo *NotificationRepository, delivery *Delivery) *NotificationService {
	return &NotificationService{
		users:    users,
		students: students,
		lessons:  lessons,
		ledger:   repo,
		channel:  delivery,
		clock:    time.Now,
	}
}

// Result is the outcome of processing one user.
type Result struct {
	UserID  string   `json:"user_id"`
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
	Created []string `json:"created,omitempty"`
}

// BatchResult aggregates a global run.
type BatchResult struct {
	Processed int      `json:"processed"`
	Results   []Result `json:"results"`
}

// userContext carries everything the evaluators need, computed once.
type userContext struct {
	user      *auth.User
	settings  *Settings
	lt        localTime
	isStudent bool
	audience  lesson.Audience
}

func (uc *userContext) deliverToInbox() bool {
	return uc.settings.DeliveryWeb
}

// ProcessUser runs every evaluator applicable to the user's role. A missing
// user or a failed query aborts this user only; the error travels back in
// the Result.
func (s *NotificationService) ProcessUser(ctx context.Context, userID primitive.ObjectID) Result {
	res := Result{UserID: userID.Hex()}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if user == nil {
		res.Error = "user not found"
		return res
	}

	settings, err := s.ledger.GetOrCreateSettings(ctx, userID)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	uc := &userContext{
		user:      user,
		settings:  settings,
		lt:        newLocalTime(s.clock(), user.TimeZone),
		isStudent: user.Role == auth.RoleStudent,
	}

	if uc.isStudent {
		// scope lesson queries to "lessons where I am the audience"
		rows, err := s.students.FindByUserID(ctx, userID)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		for _, row := range rows {
			uc.audience.StudentIDs = append(uc.audience.StudentIDs, row.ID)
		}
		if len(uc.audience.StudentIDs) > 0 {
			groups, err := s.students.GroupsContaining(ctx, uc.audience.StudentIDs)
			if err != nil {
				res.Error = err.Error()
				return res
			}
			for _, g := range groups {
				uc.audience.GroupIDs = append(uc.audience.GroupIDs, g.ID)
			}
		}
	} else {
		uc.audience = lesson.Audience{OwnerID: userID}
	}

	evaluators := []func(context.Context, *userContext, *Result) error{
		s.runLessonReminders,
		s.runUnpaidLessons,
	}
	if !uc.isStudent {
		evaluators = append(evaluators,
			s.runMorningBriefing,
			s.runIncomeReport,
			s.runEveningSummary,
			s.runMissingLessons,
			s.runStudentDebts,
		)
	}

	for _, run := range evaluators {
		if err := run(ctx, uc, &res); err != nil {
			res.Error = err.Error()
			return res
		}
	}

	res.Success = true
	return res
}

// ProcessAll runs the global batch. One user's failure never aborts the
// others.
func (s *NotificationService) ProcessAll(ctx context.Context) (*BatchResult, error) {
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	batch := &BatchResult{}
	for _, id := range ids {
		r := s.ProcessUser(ctx, id)
		if !r.Success {
			log.Printf("Notification run failed for user %s: %s", r.UserID, r.Error)
		}
		batch.Results = append(batch.Results, r)
		batch.Processed++
	}
	return batch, nil
}
