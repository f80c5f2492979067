package notification

import (
	"TutorPlanner/internal/auth"
	"TutorPlanner/internal/lesson"
	"TutorPlanner/internal/student"
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stand-ins for the Mongo repositories, mirroring their query
// semantics.

type fakeUsers struct {
	ids  []primitive.ObjectID
	byID map[primitive.ObjectID]*auth.User
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*auth.User, error) {
	return f.byID[id], nil
}

func (f *fakeUsers) ListIDs(_ context.Context) ([]primitive.ObjectID, error) {
	return f.ids, nil
}

type fakeRoster struct {
	students []*student.Student
	groups   []*student.Group
}

func (f *fakeRoster) FindByID(_ context.Context, id primitive.ObjectID) (*student.Student, error) {
	for _, s := range f.students {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeRoster) ListByOwner(_ context.Context, ownerID primitive.ObjectID) ([]*student.Student, error) {
	var out []*student.Student
	for _, s := range f.students {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRoster) FindByUserID(_ context.Context, userID primitive.ObjectID) ([]*student.Student, error) {
	var out []*student.Student
	for _, s := range f.students {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRoster) FindGroupByID(_ context.Context, id primitive.ObjectID) (*student.Group, error) {
	for _, g := range f.groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, nil
}

func (f *fakeRoster) ListGroupsByOwner(_ context.Context, ownerID primitive.ObjectID) ([]*student.Group, error) {
	var out []*student.Group
	for _, g := range f.groups {
		if g.OwnerID == ownerID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeRoster) GroupsContaining(_ context.Context, studentIDs []primitive.ObjectID) ([]*student.Group, error) {
	var out []*student.Group
	for _, g := range f.groups {
		for _, member := range g.StudentIDs {
			for _, sid := range studentIDs {
				if member == sid {
					out = append(out, g)
				}
			}
		}
	}
	return out, nil
}

type fakeLessons struct {
	lessons []*lesson.Lesson
}

func audMatch(aud lesson.Audience, l *lesson.Lesson) bool {
	if !aud.OwnerID.IsZero() {
		return l.OwnerID == aud.OwnerID
	}
	for _, sid := range aud.StudentIDs {
		if l.StudentID == sid {
			return true
		}
	}
	for _, gid := range aud.GroupIDs {
		if l.GroupID == gid {
			return true
		}
	}
	return false
}

func (f *fakeLessons) UpcomingBetween(_ context.Context, aud lesson.Audience, from, to time.Time) ([]*lesson.Lesson, error) {
	var out []*lesson.Lesson
	for _, l := range f.lessons {
		if audMatch(aud, l) && !l.IsCanceled && !l.Date.Before(from) && !l.Date.After(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLessons) UnpaidBetween(_ context.Context, aud lesson.Audience, from, to time.Time) ([]*lesson.Lesson, error) {
	var out []*lesson.Lesson
	for _, l := range f.lessons {
		if audMatch(aud, l) && !l.IsCanceled && !l.IsPaid && l.Price > 0 &&
			!l.Date.Before(from) && l.Date.Before(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLessons) OnDay(_ context.Context, ownerID primitive.ObjectID, dayStart, dayEnd time.Time) ([]*lesson.Lesson, error) {
	var out []*lesson.Lesson
	for _, l := range f.lessons {
		if l.OwnerID == ownerID && !l.IsCanceled && !l.Date.Before(dayStart) && l.Date.Before(dayEnd) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeLessons) CountFuture(_ context.Context, studentID primitive.ObjectID, groupIDs []primitive.ObjectID, after time.Time) (int64, error) {
	var n int64
	for _, l := range f.lessons {
		if l.IsCanceled || l.Date.Before(after) {
			continue
		}
		if l.StudentID == studentID {
			n++
			continue
		}
		for _, gid := range groupIDs {
			if l.GroupID == gid {
				n++
				break
			}
		}
	}
	return n, nil
}

func (f *fakeLessons) PastByOwner(_ context.Context, ownerID primitive.ObjectID, before time.Time) ([]*lesson.Lesson, error) {
	var out []*lesson.Lesson
	for _, l := range f.lessons {
		if l.OwnerID == ownerID && !l.IsCanceled && l.Date.Before(before) {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeLedger struct {
	rows     []*Notification
	settings map[primitive.ObjectID]*Settings
}

func (f *fakeLedger) HasFired(_ context.Context, userID primitive.ObjectID, category, key string) (bool, error) {
	for _, n := range f.rows {
		if n.UserID == userID && n.Category == category && n.Key == key {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedger) Record(_ context.Context, n *Notification) (bool, error) {
	for _, existing := range f.rows {
		if existing.UserID == n.UserID && existing.Category == n.Category && existing.Key == n.Key {
			return false, nil
		}
	}
	n.CreatedAt = time.Now()
	f.rows = append(f.rows, n)
	return true, nil
}

func (f *fakeLedger) GetOrCreateSettings(_ context.Context, userID primitive.ObjectID) (*Settings, error) {
	if s, ok := f.settings[userID]; ok {
		return s, nil
	}
	s := DefaultSettings(userID)
	f.settings[userID] = s
	return s, nil
}

func (f *fakeLedger) byCategory(userID primitive.ObjectID, category string) []*Notification {
	var out []*Notification
	for _, n := range f.rows {
		if n.UserID == userID && n.Category == category {
			out = append(out, n)
		}
	}
	return out
}

type fixture struct {
	users   *fakeUsers
	roster  *fakeRoster
	lessons *fakeLessons
	ledger  *fakeLedger
	pusher  *fakePusher
	svc     *NotificationService
	now     time.Time
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		users:   &fakeUsers{byID: make(map[primitive.ObjectID]*auth.User)},
		roster:  &fakeRoster{},
		lessons: &fakeLessons{},
		ledger:  &fakeLedger{settings: make(map[primitive.ObjectID]*Settings)},
		pusher:  &fakePusher{},
		now:     now,
	}
	f.svc = &NotificationService{
		users:    f.users,
		students: f.roster,
		lessons:  f.lessons,
		ledger:   f.ledger,
		channel:  &Delivery{pusher: f.pusher},
		clock:    func() time.Time { return f.now },
	}
	return f
}

func (f *fixture) addUser(role, tz string) *auth.User {
	u := &auth.User{ID: primitive.NewObjectID(), Name: "User " + role, Role: role, TimeZone: tz}
	f.users.byID[u.ID] = u
	f.users.ids = append(f.users.ids, u.ID)
	return u
}

func (f *fixture) addStudent(owner *auth.User, name string) *student.Student {
	s := &student.Student{ID: primitive.NewObjectID(), OwnerID: owner.ID, Name: name}
	f.roster.students = append(f.roster.students, s)
	return s
}

// msk builds an instant from Moscow wall-clock time.
func msk(t *testing.T, y int, m time.Month, d, hh, mm int) time.Time {
	t.Helper()
	return mustLocalUTC(t, "Europe/Moscow", y, m, d, hh, mm)
}

func TestProcessUser_Idempotent(t *testing.T) {
	// Tuesday morning: briefing and missing-lessons windows are both open
	now := msk(t, 2025, time.June, 3, 10, 0)
	f := newFixture(now)
	teacher := f.addUser(auth.RoleTeacher, "Europe/Moscow")
	anna := f.addStudent(teacher, "Anna")
	f.lessons.lessons = append(f.lessons.lessons, &lesson.Lesson{
		ID:        primitive.NewObjectID(),
		OwnerID:   teacher.ID,
		StudentID: anna.ID,
		Date:      now.Add(30 * time.Minute),
		Price:     1000,
	})

	first := f.svc.ProcessUser(context.Background(), teacher.ID)
	if !first.Success {
		t.Fatalf("first run failed: %s", first.Error)
	}
	if len(first.Created) != 2 {
		t.Fatalf("want reminder and briefing on the first run, got %v", first.Created)
	}
	rowsAfterFirst := len(f.ledger.rows)

	second := f.svc.ProcessUser(context.Background(), teacher.ID)
	if !second.Success {
		t.Fatalf("second run failed: %s", second.Error)
	}
	if len(second.Created) != 0 {
		t.Fatalf("second run must create nothing, got %v", second.Created)
	}
	if len(f.ledger.rows) != rowsAfterFirst {
		t.Fatalf("row count changed: %d -> %d", rowsAfterFirst, len(f.ledger.rows))
	}
}

func TestProcessUser_UserNotFound(t *testing.T) {
	f := newFixture(msk(t, 2025, time.June, 3, 10, 0))
	res := f.svc.ProcessUser(context.Background(), primitive.NewObjectID())
	if res.Success {
		t.Fatal("missing user must not succeed")
	}
	if res.Error != "user not found" {
		t.Fatalf("want user not found, got %q", res.Error)
	}
}

func TestRoleGating_StudentGetsNoTeacherReports(t *testing.T) {
	// late evening: income window is open for teachers
	now := msk(t, 2025, time.June, 3, 21, 30)
	f := newFixture(now)
	teacher := f.addUser(auth.RoleTeacher, "Europe/Moscow")
	studentUser := f.addUser(auth.RoleStudent, "Europe/Moscow")
	anna := f.addStudent(teacher, "Anna")
	anna.UserID = studentUser.ID

	f.lessons.lessons = append(f.lessons.lessons,
		&lesson.Lesson{
			ID:        primitive.NewObjectID(),
			OwnerID:   teacher.ID,
			StudentID: anna.ID,
			Date:      now.Add(-3 * time.Hour),
			Price:     1000,
			IsPaid:    true,
		},
		&lesson.Lesson{
			ID:        primitive.NewObjectID(),
			OwnerID:   teacher.ID,
			StudentID: anna.ID,
			Date:      now.Add(30 * time.Minute),
			Price:     1000,
		})

	res := f.svc.ProcessUser(context.Background(), studentUser.ID)
	if !res.Success {
		t.Fatalf("student run failed: %s", res.Error)
	}
	for _, category := range []string{CategoryMorningBriefing, CategoryIncomeReport, CategoryEveningSummary, CategoryMissingLessons, CategoryStudentDebts} {
		if rows := f.ledger.byCategory(studentUser.ID, category); len(rows) != 0 {
			t.Fatalf("student received %s: %v", category, rows)
		}
	}

	reminders := f.ledger.byCategory(studentUser.ID, CategoryLessonReminder)
	if len(reminders) != 1 {
		t.Fatalf("want one reminder for the student, got %d", len(reminders))
	}
	if !strings.Contains(reminders[0].Message, "teacher") {
		t.Fatalf("student-facing message must name the teacher, got %q", reminders[0].Message)
	}
}

func TestSettingsGating_DisabledCategoryNeverFires(t *testing.T) {
	// 13:00 keeps every other window closed
	now := msk(t, 2025, time.June, 3, 13, 0)
	f := newFixture(now)
	teacher := f.addUser(auth.RoleTeacher, "Europe/Moscow")
	anna := f.addStudent(teacher, "Anna")
	f.lessons.lessons = append(f.lessons.lessons, &lesson.Lesson{
		ID:        primitive.NewObjectID(),
		OwnerID:   teacher.ID,
		StudentID: anna.ID,
		Date:      now.Add(30 * time.Minute),
		Price:     1000,
	})

	settings := DefaultSettings(teacher.ID)
	settings.LessonReminders = false
	f.ledger.settings[teacher.ID] = settings

	res := f.svc.ProcessUser(context.Background(), teacher.ID)
	if !res.Success {
		t.Fatalf("run failed: %s", res.Error)
	}
	if len(f.ledger.rows) != 0 {
		t.Fatalf("disabled category must not write rows, got %d", len(f.ledger.rows))
	}
}

func TestMorningBriefing_RecordedOnlyOnDeliverySuccess(t *testing.T) {
	now := msk(t, 2025, time.June, 3, 8, 0)
	f := newFixture(now)
	teacher := f.addUser(auth.RoleTeacher, "Europe/Moscow")
	teacher.TelegramChatID = 42
	anna := f.addStudent(teacher, "Anna")

	settings := DefaultSettings(teacher.ID)
	settings.DeliveryTelegram = true
	f.ledger.settings[teacher.ID] = settings

	f.lessons.lessons = append(f.lessons.lessons,
		&lesson.Lesson{
			ID:        primitive.NewObjectID(),
			OwnerID:   teacher.ID,
			StudentID: anna.ID,
			Date:      msk(t, 2025, time.June, 3, 9, 0),
			Price:     1000,
		},
		// ended two hours ago, still unpaid
		&lesson.Lesson{
			ID:        primitive.NewObjectID(),
			OwnerID:   teacher.ID,
			StudentID: anna.ID,
			Date:      now.Add(-3 * time.Hour),
			Price:     500,
		})

	f.pusher.err = context.DeadlineExceeded
	res := f.svc.ProcessUser(context.Background(), teacher.ID)
	if !res.Success {
		t.Fatalf("run failed: %s", res.Error)
	}
	if rows := f.ledger.byCategory(teacher.ID, CategoryMorningBriefing); len(rows) != 0 {
		t.Fatal("briefing must not be recorded when the push fails")
	}
	// the unpaid nag is row-first: recorded even though its push failed
	if rows := f.ledger.byCategory(teacher.ID, CategoryUnpaidLesson); len(rows) != 1 {
		t.Fatalf("unpaid row must survive a push failure, got %d", len(rows))
	}

	f.pusher.err = nil
	res = f.svc.ProcessUser(context.Background(), teacher.ID)
	if !res.Success {
		t.Fatalf("retry failed: %s", res.Error)
	}
	rows := f.ledger.byCategory(teacher.ID, CategoryMorningBriefing)
	if len(rows) != 1 {
		t.Fatalf("briefing should be recorded once the push succeeds, got %d", len(rows))
	}
	if !strings.Contains(rows[0].Message, "09:00") || !strings.Contains(rows[0].Message, "Anna") {
		t.Fatalf("briefing must list the 09:00 lesson with Anna, got %q", rows[0].Message)
	}
}

func TestEveningSummary_WaitsForLastLessonEnd(t *testing.T) {
	// lesson 18:00-19:00, summary owed from 19:15
	f := newFixture(msk(t, 2025, time.June, 3, 19, 10))
	teacher := f.addUser(auth.RoleTeacher, "Europe/Moscow")
	anna := f.addStudent(teacher, "Anna")
	f.lessons.lessons = append(f.lessons.lessons, &lesson.Lesson{
		ID:        primitive.NewObjectID(),
		OwnerID:   teacher.ID,
		StudentID: anna.ID,
		Date:      msk(t, 2025, time.June, 3, 18, 0),
		Price:     1000,
		IsPaid:    true,
	})

	res := f.svc.ProcessUser(context.Background(), teacher.ID)
	if !res.Success {
		t.Fatalf("run failed: %s", res.Error)
	}
	if rows := f.ledger.byCategory(teacher.ID, CategoryEveningSummary); len(rows) != 0 {
		t.Fatal("summary fired before the settle-down delay")
	}

	f.now = msk(t, 2025, time.June, 3, 19, 16)
	res = f.svc.ProcessUser(context.Background(), teacher.ID)
	if !res.Success {
		t.Fatalf("run failed: %s", res.Error)
	}
	rows := f.ledger.byCategory(teacher.ID, CategoryEveningSummary)
	if len(rows) != 1 {
		t.Fatalf("want one summary, got %d", len(rows))
	}
	if !strings.Contains(rows[0].Message, "1000") {
		t.Fatalf("summary must carry the income, got %q", rows[0].Message)
	}
}

func TestIncomeReport_SumsGroupPayments(t *testing.T) {
	f := newFixture(msk(t, 2025, time.June, 3, 21, 30))
	teacher := f.addUser(auth.RoleTeacher, "Europe/Moscow")
	anna := f.addStudent(teacher, "Anna")
	boris := f.addStudent(teacher, "Boris")
	vera := f.addStudent(teacher, "Vera")
	group := &student.Group{ID: primitive.NewObjectID(), OwnerID: teacher.ID, Name: "Algebra", StudentIDs: []primitive.ObjectID{anna.ID, boris.ID, vera.ID}}
	f.roster.groups = append(f.roster.groups, group)

	f.lessons.lessons = append(f.lessons.lessons,
		&lesson.Lesson{
			ID:        primitive.NewObjectID(),
			OwnerID:   teacher.ID,
			StudentID: anna.ID,
			Date:      msk(t, 2025, time.June, 3, 12, 0),
			Price:     1000,
			IsPaid:    true,
		},
		&lesson.Lesson{
			ID:      primitive.NewObjectID(),
			OwnerID: teacher.ID,
			GroupID: group.ID,
			Date:    msk(t, 2025, time.June, 3, 15, 0),
			Price:   500,
			Payments: []lesson.GroupPayment{
				{StudentID: anna.ID, HasPaid: true, Price: 500},
				{StudentID: boris.ID, HasPaid: true, Price: 500},
				{StudentID: vera.ID, Price: 500},
			},
		})

	res := f.svc.ProcessUser(context.Background(), teacher.ID)
	if !res.Success {
		t.Fatalf("run failed: %s", res.Error)
	}
	rows := f.ledger.byCategory(teacher.ID, CategoryIncomeReport)
	if len(rows) != 1 {
		t.Fatalf("want one income report, got %d", len(rows))
	}
	if !strings.Contains(rows[0].Message, "2000") {
		t.Fatalf("want income 2000 (1000 + 2x500), got %q", rows[0].Message)
	}
}

func TestStudentDebts_ThresholdAndAmount(t *testing.T) {
	// Monday, inside the 9-11 window
	f := newFixture(msk(t, 2025, time.June, 2, 10, 0))
	teacher := f.addUser(auth.RoleTeacher, "Europe/Moscow")
	anna := f.addStudent(teacher, "Anna")
	group := &student.Group{ID: primitive.NewObjectID(), OwnerID: teacher.ID, Name: "Algebra", StudentIDs: []primitive.ObjectID{anna.ID}}
	f.roster.groups = append(f.roster.groups, group)

	f.lessons.lessons = append(f.lessons.lessons, &lesson.Lesson{
		ID:        primitive.NewObjectID(),
		OwnerID:   teacher.ID,
		StudentID: anna.ID,
		Date:      msk(t, 2025, time.May, 26, 12, 0),
		Price:     800,
	})

	res := f.svc.ProcessUser(context.Background(), teacher.ID)
	if !res.Success {
		t.Fatalf("run failed: %s", res.Error)
	}
	if rows := f.ledger.byCategory(teacher.ID, CategoryStudentDebts); len(rows) != 0 {
		t.Fatal("one unpaid lesson is below the debt threshold")
	}

	// a second debt, this time an unpaid group payment row
	f.lessons.lessons = append(f.lessons.lessons, &lesson.Lesson{
		ID:      primitive.NewObjectID(),
		OwnerID: teacher.ID,
		GroupID: group.ID,
		Date:    msk(t, 2025, time.May, 28, 12, 0),
		Price:   1200,
		Payments: []lesson.GroupPayment{
			{StudentID: anna.ID, Price: 1200},
		},
	})

	res = f.svc.ProcessUser(context.Background(), teacher.ID)
	if !res.Success {
		t.Fatalf("run failed: %s", res.Error)
	}
	rows := f.ledger.byCategory(teacher.ID, CategoryStudentDebts)
	if len(rows) != 1 {
		t.Fatalf("two debts must trigger, got %d rows", len(rows))
	}
	if !strings.Contains(rows[0].Message, "2 unpaid") || !strings.Contains(rows[0].Message, "2000") {
		t.Fatalf("want 2 debts totaling 2000, got %q", rows[0].Message)
	}
}

func TestMissingLessons_PastLessonDoesNotCount(t *testing.T) {
	// the 09:00 lesson is still ahead at 07:30 but already over at 10:00
	f := newFixture(msk(t, 2025, time.June, 3, 7, 30))
	teacher := f.addUser(auth.RoleTeacher, "Europe/Moscow")
	anna := f.addStudent(teacher, "Anna")
	f.lessons.lessons = append(f.lessons.lessons, &lesson.Lesson{
		ID:        primitive.NewObjectID(),
		OwnerID:   teacher.ID,
		StudentID: anna.ID,
		Date:      msk(t, 2025, time.June, 3, 9, 0),
		Price:     1000,
	})

	res := f.svc.ProcessUser(context.Background(), teacher.ID)
	if !res.Success {
		t.Fatalf("run failed: %s", res.Error)
	}
	if rows := f.ledger.byCategory(teacher.ID, CategoryMissingLessons); len(rows) != 0 {
		t.Fatal("missing-lessons window is not open at 07:30")
	}
	briefings := f.ledger.byCategory(teacher.ID, CategoryMorningBriefing)
	if len(briefings) != 1 {
		t.Fatalf("want the morning briefing at 07:30, got %d", len(briefings))
	}

	f.now = msk(t, 2025, time.June, 3, 7, 45)
	f.svc.ProcessUser(context.Background(), teacher.ID)
	if rows := f.ledger.byCategory(teacher.ID, CategoryMorningBriefing); len(rows) != 1 {
		t.Fatal("briefing must not fire twice on one day")
	}

	f.now = msk(t, 2025, time.June, 3, 10, 0)
	res = f.svc.ProcessUser(context.Background(), teacher.ID)
	if !res.Success {
		t.Fatalf("run failed: %s", res.Error)
	}
	var flagged *Notification
	for _, n := range f.ledger.byCategory(teacher.ID, CategoryMissingLessons) {
		if strings.HasPrefix(n.Key, "missing_student_") {
			flagged = n
		}
	}
	if flagged == nil {
		t.Fatal("after 09:00 has passed Anna has no future lessons and must be flagged")
	}
	if !strings.Contains(flagged.Message, "Anna") {
		t.Fatalf("flag must name the student, got %q", flagged.Message)
	}
}

func TestMissingLessons_OncePerDayGuard(t *testing.T) {
	f := newFixture(msk(t, 2025, time.June, 3, 9, 30))
	teacher := f.addUser(auth.RoleTeacher, "Europe/Moscow")
	f.addStudent(teacher, "Anna") // no lessons at all

	res := f.svc.ProcessUser(context.Background(), teacher.ID)
	if !res.Success {
		t.Fatalf("run failed: %s", res.Error)
	}
	rowsAfterFirst := len(f.ledger.byCategory(teacher.ID, CategoryMissingLessons))
	if rowsAfterFirst != 2 { // daily marker + Anna's flag
		t.Fatalf("want marker and one flag, got %d rows", rowsAfterFirst)
	}

	// a student added after the daily sweep is not scanned again today
	f.addStudent(teacher, "Boris")
	f.now = msk(t, 2025, time.June, 3, 10, 30)
	f.svc.ProcessUser(context.Background(), teacher.ID)
	if got := len(f.ledger.byCategory(teacher.ID, CategoryMissingLessons)); got != rowsAfterFirst {
		t.Fatalf("daily guard must prevent a second sweep, got %d rows", got)
	}
}

func TestProcessAll_IsolatesPerUserFailures(t *testing.T) {
	f := newFixture(msk(t, 2025, time.June, 3, 13, 0))
	teacher := f.addUser(auth.RoleTeacher, "Europe/Moscow")
	ghost := primitive.NewObjectID()
	f.users.ids = append(f.users.ids, ghost)

	batch, err := f.svc.ProcessAll(context.Background())
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if batch.Processed != 2 {
		t.Fatalf("want 2 processed, got %d", batch.Processed)
	}
	byUser := make(map[string]Result)
	for _, r := range batch.Results {
		byUser[r.UserID] = r
	}
	if !byUser[teacher.ID.Hex()].Success {
		t.Fatal("healthy user must succeed")
	}
	if byUser[ghost.Hex()].Success {
		t.Fatal("ghost user must be reported as failed")
	}
}

func TestQuietHours_RowWrittenPushSuppressed(t *testing.T) {
	// 23:00 local, unpaid lesson due
	f := newFixture(msk(t, 2025, time.June, 3, 23, 0))
	teacher := f.addUser(auth.RoleTeacher, "Europe/Moscow")
	teacher.TelegramChatID = 42
	anna := f.addStudent(teacher, "Anna")

	settings := DefaultSettings(teacher.ID)
	settings.DeliveryTelegram = true
	settings.QuietHoursEnabled = true
	settings.IncomeReports = false
	settings.EveningSummary = false
	f.ledger.settings[teacher.ID] = settings

	f.lessons.lessons = append(f.lessons.lessons, &lesson.Lesson{
		ID:        primitive.NewObjectID(),
		OwnerID:   teacher.ID,
		StudentID: anna.ID,
		Date:      msk(t, 2025, time.June, 3, 20, 0),
		Price:     1000,
	})

	res := f.svc.ProcessUser(context.Background(), teacher.ID)
	if !res.Success {
		t.Fatalf("run failed: %s", res.Error)
	}
	if rows := f.ledger.byCategory(teacher.ID, CategoryUnpaidLesson); len(rows) != 1 {
		t.Fatalf("in-app row must be written during quiet hours, got %d", len(rows))
	}
	if len(f.pusher.sent) != 0 {
		t.Fatalf("no push expected during quiet hours, got %v", f.pusher.sent)
	}
}
