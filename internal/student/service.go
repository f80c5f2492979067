package student

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StudentService handles roster business logic for a teacher.
type StudentService struct {
	repo *StudentRepository
}

func NewStudentService(repo *StudentRepository) *StudentService {
	return &StudentService{repo: repo}
}

func (s *StudentService) CreateStudent(ctx context.Context, ownerID primitive.ObjectID, req StudentRequest) (*Student, error) {
	if req.Name == "" {
		return nil, errors.New("student name is required")
	}
	st := &Student{
		ID:      primitive.NewObjectID(),
		OwnerID: ownerID,
		Name:    req.Name,
		Email:   req.Email,
	}
	if req.UserID != "" {
		uid, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			return nil, errors.New("invalid user id")
		}
		st.UserID = uid
	}
	if err := s.repo.CreateStudent(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StudentService) UpdateStudent(ctx context.Context, ownerID, id primitive.ObjectID, req StudentRequest) (*Student, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil || st.OwnerID != ownerID {
		return nil, errors.New("student not found")
	}
	if req.Name != "" {
		st.Name = req.Name
	}
	if req.Email != "" {
		st.Email = req.Email
	}
	if req.UserID != "" {
		uid, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			return nil, errors.New("invalid user id")
		}
		st.UserID = uid
	}
	if err := s.repo.UpdateStudent(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StudentService) CreateGroup(ctx context.Context, ownerID primitive.ObjectID, req GroupRequest) (*Group, error) {
	if req.Name == "" {
		return nil, errors.New("group name is required")
	}
	g := &Group{
		ID:      primitive.NewObjectID(),
		OwnerID: ownerID,
		Name:    req.Name,
	}
	for _, hex := range req.StudentIDs {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return nil, errors.New("invalid student id")
		}
		st, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if st == nil || st.OwnerID != ownerID {
			return nil, errors.New("student not found")
		}
		g.StudentIDs = append(g.StudentIDs, id)
	}
	if err := s.repo.CreateGroup(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *StudentService) UpdateGroup(ctx context.Context, ownerID, id primitive.ObjectID, req GroupRequest) (*Group, error) {
	g, err := s.repo.FindGroupByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil || g.OwnerID != ownerID {
		return nil, errors.New("group not found")
	}
	if req.Name != "" {
		g.Name = req.Name
	}
	if req.StudentIDs != nil {
		g.StudentIDs = nil
		for _, hex := range req.StudentIDs {
			sid, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				return nil, errors.New("invalid student id")
			}
			g.StudentIDs = append(g.StudentIDs, sid)
		}
	}
	if err := s.repo.UpdateGroup(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}
