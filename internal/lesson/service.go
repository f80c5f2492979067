package lesson

import (
	"TutorPlanner/internal/student"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LessonService handles scheduling business logic.
type LessonService struct {
	repo     *LessonRepository
	students *student.StudentRepository
}

func NewLessonService(repo *LessonRepository, students *student.StudentRepository) *LessonService {
	return &LessonService{repo: repo, students: students}
}

func (s *LessonService) CreateLesson(ctx context.Context, ownerID primitive.ObjectID, req LessonRequest) (*Lesson, error) {
	if (req.StudentID == "") == (req.GroupID == "") {
		return nil, errors.New("exactly one of student_id or group_id is required")
	}
	if req.Date.IsZero() {
		return nil, errors.New("lesson date is required")
	}

	l := &Lesson{
		ID:          primitive.NewObjectID(),
		OwnerID:     ownerID,
		Subject:     req.Subject,
		Date:        req.Date,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		IsTrial:     req.IsTrial,
	}
	if l.DurationMin == 0 {
		l.DurationMin = defaultDurationMin
	}

	if req.StudentID != "" {
		sid, err := primitive.ObjectIDFromHex(req.StudentID)
		if err != nil {
			return nil, errors.New("invalid student id")
		}
		st, err := s.students.FindByID(ctx, sid)
		if err != nil {
			return nil, err
		}
		if st == nil || st.OwnerID != ownerID {
			return nil, errors.New("student not found")
		}
		l.StudentID = sid
	} else {
		gid, err := primitive.ObjectIDFromHex(req.GroupID)
		if err != nil {
			return nil, errors.New("invalid group id")
		}
		g, err := s.students.FindGroupByID(ctx, gid)
		if err != nil {
			return nil, err
		}
		if g == nil || g.OwnerID != ownerID {
			return nil, errors.New("group not found")
		}
		l.GroupID = gid
		// one payment row per member, settled individually
		for _, sid := range g.StudentIDs {
			l.Payments = append(l.Payments, GroupPayment{StudentID: sid, Price: req.Price})
		}
	}

	if err := s.repo.CreateLesson(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LessonService) CancelLesson(ctx context.Context, ownerID, id primitive.ObjectID) (*Lesson, error) {
	l, err := s.ownedLesson(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	l.IsCanceled = true
	if err := s.repo.UpdateLesson(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// MarkPaid settles a 1:1 lesson, or a single student's payment row when the
// lesson is a group lesson. A group lesson is paid once every row is.
func (s *LessonService) MarkPaid(ctx context.Context, ownerID, id primitive.ObjectID, studentHex string) (*Lesson, error) {
	l, err := s.ownedLesson(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if l.HasGroup() {
		if studentHex == "" {
			return nil, errors.New("student_id is required for a group lesson")
		}
		sid, err := primitive.ObjectIDFromHex(studentHex)
		if err != nil {
			return nil, errors.New("invalid student id")
		}
		found := false
		allPaid := true
		for i := range l.Payments {
			if l.Payments[i].StudentID == sid {
				l.Payments[i].HasPaid = true
				found = true
			}
			if !l.Payments[i].HasPaid {
				allPaid = false
			}
		}
		if !found {
			return nil, errors.New("student is not part of this lesson")
		}
		l.IsPaid = allPaid
	} else {
		l.IsPaid = true
	}

	if err := s.repo.UpdateLesson(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LessonService) ownedLesson(ctx context.Context, ownerID, id primitive.ObjectID) (*Lesson, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil || l.OwnerID != ownerID {
		return nil, errors.New("lesson not found")
	}
	return l, nil
}
