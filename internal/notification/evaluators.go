package notification

import (
	"TutorPlanner/internal/lesson"
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	reminderLead   = 45 * time.Minute
	unpaidGrace    = 5 * time.Minute
	unpaidLookback = 7 * 24 * time.Hour
	eveningDelay   = 15 * time.Minute
	debtThreshold  = 2
)

// reminderDue reports whether a reminder is owed now: the lesson starts
// within the lead window and has not started yet.
func reminderDue(l *lesson.Lesson, now time.Time) bool {
	if l.IsCanceled {
		return false
	}
	return !l.Date.Before(now) && !l.Date.After(now.Add(reminderLead))
}

// unpaidDue reports whether an unpaid nag is owed now: the lesson ended at
// least the grace period ago and no longer than the lookback ago.
func unpaidDue(l *lesson.Lesson, now time.Time) bool {
	if l.IsCanceled || l.IsPaid || l.Price <= 0 {
		return false
	}
	end := l.EndsAt()
	if now.Before(end.Add(unpaidGrace)) {
		return false
	}
	return !end.Before(now.Add(-unpaidLookback))
}

func (r *Result) add(category string) {
	for _, c := range r.Created {
		if c == category {
			return
		}
	}
	r.Created = append(r.Created, category)
}

// fire records the notification, then pushes it best-effort. Row first: the
// in-app history stays authoritative even when the push fails.
func (s *NotificationService) fire(ctx context.Context, uc *userContext, res *Result, n *Notification) error {
	created, err := s.ledger.Record(ctx, n)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}
	s.channel.Send(uc.user, uc.settings, uc.lt.local(), n.Message)
	res.add(n.Category)
	return nil
}

// firePushGated pushes first and records only on success. Morning briefing
// and evening summary treat the push as the primary channel; the row records
// that a push went out, and a failed push is simply retried on a later run.
func (s *NotificationService) firePushGated(ctx context.Context, uc *userContext, res *Result, n *Notification) error {
	if !s.channel.Send(uc.user, uc.settings, uc.lt.local(), n.Message) {
		return nil
	}
	created, err := s.ledger.Record(ctx, n)
	if err != nil {
		return err
	}
	if created {
		res.add(n.Category)
	}
	return nil
}

// audienceName resolves a lesson's audience to its label and display name.
func (s *NotificationService) audienceName(ctx context.Context, l *lesson.Lesson) (string, string, error) {
	if l.HasStudent() {
		st, err := s.students.FindByID(ctx, l.StudentID)
		if err != nil {
			return "", "", err
		}
		if st == nil {
			return "student", "", nil
		}
		return "student", st.Name, nil
	}
	g, err := s.students.FindGroupByID(ctx, l.GroupID)
	if err != nil {
		return "", "", err
	}
	if g == nil {
		return "group", "", nil
	}
	return "group", g.Name, nil
}

// counterpart names the other side of a lesson: the audience for a teacher,
// the teacher for a student.
func (s *NotificationService) counterpart(ctx context.Context, uc *userContext, l *lesson.Lesson) (string, error) {
	if uc.isStudent {
		owner, err := s.users.FindByID(ctx, l.OwnerID)
		if err != nil {
			return "", err
		}
		if owner == nil {
			return "your teacher", nil
		}
		return "teacher " + owner.Name, nil
	}
	label, name, err := s.audienceName(ctx, l)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "a " + label, nil
	}
	return label + " " + name, nil
}

func (s *NotificationService) runLessonReminders(ctx context.Context, uc *userContext, res *Result) error {
	if !uc.settings.LessonReminders {
		return nil
	}

	upcoming, err := s.lessons.UpcomingBetween(ctx, uc.audience, uc.lt.now, uc.lt.now.Add(reminderLead))
	if err != nil {
		return err
	}
	for _, l := range upcoming {
		if !reminderDue(l, uc.lt.now) {
			continue
		}
		key := "reminder_" + l.ID.Hex()
		fired, err := s.ledger.HasFired(ctx, uc.user.ID, CategoryLessonReminder, key)
		if err != nil {
			return err
		}
		if fired {
			continue
		}
		name, err := s.counterpart(ctx, uc, l)
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("Lesson with %s starts at %s", name, l.Date.In(uc.lt.loc).Format("15:04"))
		err = s.fire(ctx, uc, res, &Notification{
			UserID:   uc.user.ID,
			Category: CategoryLessonReminder,
			Key:      key,
			Title:    "Upcoming lesson",
			Message:  msg,
			Link:     "/lessons/" + l.ID.Hex(),
			IsRead:   !uc.deliverToInbox(),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *NotificationService) runUnpaidLessons(ctx context.Context, uc *userContext, res *Result) error {
	if !uc.settings.UnpaidLessons {
		return nil
	}

	// margin over the lookback so a long lesson's end still lands inside it
	from := uc.lt.now.Add(-(unpaidLookback + 24*time.Hour))
	unpaid, err := s.lessons.UnpaidBetween(ctx, uc.audience, from, uc.lt.now)
	if err != nil {
		return err
	}
	for _, l := range unpaid {
		if !unpaidDue(l, uc.lt.now) {
			continue
		}
		key := "unpaid_" + l.ID.Hex()
		fired, err := s.ledger.HasFired(ctx, uc.user.ID, CategoryUnpaidLesson, key)
		if err != nil {
			return err
		}
		if fired {
			continue
		}
		name, err := s.counterpart(ctx, uc, l)
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("Lesson with %s on %s is still unpaid (%.0f)",
			name, l.Date.In(uc.lt.loc).Format("Jan 2"), l.Price)
		err = s.fire(ctx, uc, res, &Notification{
			UserID:   uc.user.ID,
			Category: CategoryUnpaidLesson,
			Key:      key,
			Title:    "Unpaid lesson",
			Message:  msg,
			Link:     "/lessons/" + l.ID.Hex(),
			IsRead:   !uc.deliverToInbox(),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *NotificationService) runMorningBriefing(ctx context.Context, uc *userContext, res *Result) error {
	if !uc.settings.MorningBriefing {
		return nil
	}
	if uc.lt.hour < 7 || uc.lt.hour >= 12 {
		return nil
	}

	key := "morning_briefing_" + uc.lt.dateKey
	fired, err := s.ledger.HasFired(ctx, uc.user.ID, CategoryMorningBriefing, key)
	if err != nil {
		return err
	}
	if fired {
		return nil
	}

	dayStart, dayEnd := uc.lt.dayBounds()
	today, err := s.lessons.OnDay(ctx, uc.user.ID, dayStart, dayEnd)
	if err != nil {
		return err
	}
	if len(today) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Today's lessons (%d):", len(today))
	for _, l := range today {
		_, name, err := s.audienceName(ctx, l)
		if err != nil {
			return err
		}
		icon := "👤"
		if l.HasGroup() {
			icon = "👥"
		}
		fmt.Fprintf(&b, "\n%s %s %s", l.Date.In(uc.lt.loc).Format("15:04"), icon, name)
		if l.Subject != "" {
			fmt.Fprintf(&b, " (%s)", l.Subject)
		}
	}

	return s.firePushGated(ctx, uc, res, &Notification{
		UserID:   uc.user.ID,
		Category: CategoryMorningBriefing,
		Key:      key,
		Title:    "Morning briefing",
		Message:  b.String(),
		IsRead:   !uc.deliverToInbox(),
	})
}

func (s *NotificationService) runIncomeReport(ctx context.Context, uc *userContext, res *Result) error {
	if !uc.settings.IncomeReports {
		return nil
	}
	if uc.lt.hour < 21 {
		return nil
	}

	key := "income_daily_" + uc.lt.dateKey
	fired, err := s.ledger.HasFired(ctx, uc.user.ID, CategoryIncomeReport, key)
	if err != nil {
		return err
	}
	if fired {
		return nil
	}

	dayStart, dayEnd := uc.lt.dayBounds()
	today, err := s.lessons.OnDay(ctx, uc.user.ID, dayStart, dayEnd)
	if err != nil {
		return err
	}
	if len(today) == 0 {
		return nil
	}

	total := 0.0
	for _, l := range today {
		total += l.Income()
	}
	msg := fmt.Sprintf("You earned %.0f across %d lessons today", total, len(today))
	return s.fire(ctx, uc, res, &Notification{
		UserID:   uc.user.ID,
		Category: CategoryIncomeReport,
		Key:      key,
		Title:    "Daily income",
		Message:  msg,
		IsRead:   !uc.deliverToInbox(),
	})
}

func (s *NotificationService) runEveningSummary(ctx context.Context, uc *userContext, res *Result) error {
	if !uc.settings.EveningSummary {
		return nil
	}

	key := "evening_summary_" + uc.lt.dateKey
	fired, err := s.ledger.HasFired(ctx, uc.user.ID, CategoryEveningSummary, key)
	if err != nil {
		return err
	}
	if fired {
		return nil
	}

	dayStart, dayEnd := uc.lt.dayBounds()
	today, err := s.lessons.OnDay(ctx, uc.user.ID, dayStart, dayEnd)
	if err != nil {
		return err
	}
	if len(today) == 0 {
		return nil
	}

	lastEnd := today[0].EndsAt()
	for _, l := range today[1:] {
		if l.EndsAt().After(lastEnd) {
			lastEnd = l.EndsAt()
		}
	}
	if uc.lt.now.Before(lastEnd.Add(eveningDelay)) {
		return nil
	}

	total := 0.0
	for _, l := range today {
		total += l.Income()
	}
	msg := fmt.Sprintf("Done for today: %d lessons, %.0f earned", len(today), total)
	return s.firePushGated(ctx, uc, res, &Notification{
		UserID:   uc.user.ID,
		Category: CategoryEveningSummary,
		Key:      key,
		Title:    "Evening summary",
		Message:  msg,
		IsRead:   !uc.deliverToInbox(),
	})
}

func (s *NotificationService) runMissingLessons(ctx context.Context, uc *userContext, res *Result) error {
	if !uc.settings.MissingLessons {
		return nil
	}
	if uc.lt.hour < 9 || uc.lt.hour > 11 {
		return nil
	}

	// Once-per-day guard so the roster is not re-scanned on every poll. The
	// marker is an internal ledger row: empty message keeps it out of the
	// inbox.
	marker := "missing_check_" + uc.lt.dateKey
	fired, err := s.ledger.HasFired(ctx, uc.user.ID, CategoryMissingLessons, marker)
	if err != nil {
		return err
	}
	if fired {
		return nil
	}
	latched, err := s.ledger.Record(ctx, &Notification{
		UserID:   uc.user.ID,
		Category: CategoryMissingLessons,
		Key:      marker,
		IsRead:   true,
	})
	if err != nil {
		return err
	}
	if !latched {
		return nil
	}

	roster, err := s.students.ListByOwner(ctx, uc.user.ID)
	if err != nil {
		return err
	}
	groups, err := s.students.ListGroupsByOwner(ctx, uc.user.ID)
	if err != nil {
		return err
	}
	memberGroups := make(map[primitive.ObjectID][]primitive.ObjectID)
	for _, g := range groups {
		for _, sid := range g.StudentIDs {
			memberGroups[sid] = append(memberGroups[sid], g.ID)
		}
	}

	for _, st := range roster {
		n, err := s.lessons.CountFuture(ctx, st.ID, memberGroups[st.ID], uc.lt.now)
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		key := fmt.Sprintf("missing_student_%s_week_%d", st.ID.Hex(), uc.lt.week)
		fired, err := s.ledger.HasFired(ctx, uc.user.ID, CategoryMissingLessons, key)
		if err != nil {
			return err
		}
		if fired {
			continue
		}
		err = s.fire(ctx, uc, res, &Notification{
			UserID:   uc.user.ID,
			Category: CategoryMissingLessons,
			Key:      key,
			Title:    "Schedule gap",
			Message:  fmt.Sprintf("No upcoming lessons scheduled with %s", st.Name),
			Link:     "/students/" + st.ID.Hex(),
			IsRead:   !uc.deliverToInbox(),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *NotificationService) runStudentDebts(ctx context.Context, uc *userContext, res *Result) error {
	if !uc.settings.StudentDebts {
		return nil
	}
	if uc.lt.weekday != time.Monday || uc.lt.hour < 9 || uc.lt.hour > 11 {
		return nil
	}

	past, err := s.lessons.PastByOwner(ctx, uc.user.ID, uc.lt.now)
	if err != nil {
		return err
	}

	type debt struct {
		count  int
		amount float64
	}
	debts := make(map[primitive.ObjectID]*debt)
	grow := func(sid primitive.ObjectID, amount float64) {
		d := debts[sid]
		if d == nil {
			d = &debt{}
			debts[sid] = d
		}
		d.count++
		d.amount += amount
	}
	for _, l := range past {
		if l.HasStudent() {
			if !l.IsPaid {
				grow(l.StudentID, l.Price)
			}
			continue
		}
		for _, p := range l.Payments {
			if !p.HasPaid {
				grow(p.StudentID, p.Price)
			}
		}
	}

	for sid, d := range debts {
		if d.count < debtThreshold {
			continue
		}
		key := fmt.Sprintf("debt_student_%s_week_%d", sid.Hex(), uc.lt.week)
		fired, err := s.ledger.HasFired(ctx, uc.user.ID, CategoryStudentDebts, key)
		if err != nil {
			return err
		}
		if fired {
			continue
		}
		st, err := s.students.FindByID(ctx, sid)
		if err != nil {
			return err
		}
		name := "A student"
		if st != nil {
			name = st.Name
		}
		err = s.fire(ctx, uc, res, &Notification{
			UserID:   uc.user.ID,
			Category: CategoryStudentDebts,
			Key:      key,
			Title:    "Student debt",
			Message:  fmt.Sprintf("%s has %d unpaid lessons totaling %.0f", name, d.count, d.amount),
			Link:     "/students/" + sid.Hex(),
			IsRead:   !uc.deliverToInbox(),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
