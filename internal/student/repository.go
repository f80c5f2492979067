package student

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type StudentRepository struct {
	students *mongo.Collection
	groups   *mongo.Collection
}

func NewStudentRepository(db *mongo.Database) *StudentRepository {
	return &StudentRepository{
		students: db.Collection("students"),
		groups:   db.Collection("groups"),
	}
}

func (r *StudentRepository) CreateStudent(ctx context.Context, s *Student) error {
	_, err := r.students.InsertOne(ctx, s)
	return err
}

func (r *StudentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Student, error) {
	var s Student
	err := r.students.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *StudentRepository) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*Student, error) {
	cursor, err := r.students.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, err
	}
	var students []*Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// FindByUserID returns every roster entry linked to the given platform
// account. One account can appear on the rosters of several teachers.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*Student, error) {
	cursor, err := r.students.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	var students []*Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (r *StudentRepository) UpdateStudent(ctx context.Context, s *Student) error {
	_, err := r.students.ReplaceOne(ctx, bson.M{"_id": s.ID}, s)
	return err
}

func (r *StudentRepository) DeleteStudent(ctx context.Context, ownerID, id primitive.ObjectID) error {
	_, err := r.students.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	return err
}

func (r *StudentRepository) CreateGroup(ctx context.Context, g *Group) error {
	_, err := r.groups.InsertOne(ctx, g)
	return err
}

func (r *StudentRepository) FindGroupByID(ctx context.Context, id primitive.ObjectID) (*Group, error) {
	var g Group
	err := r.groups.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *StudentRepository) ListGroupsByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*Group, error) {
	cursor, err := r.groups.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, err
	}
	var groups []*Group
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GroupsContaining returns the groups any of the given students belong to.
func (r *StudentRepository) GroupsContaining(ctx context.Context, studentIDs []primitive.ObjectID) ([]*Group, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	cursor, err := r.groups.Find(ctx, bson.M{"student_ids": bson.M{"$in": studentIDs}})
	if err != nil {
		return nil, err
	}
	var groups []*Group
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *StudentRepository) UpdateGroup(ctx context.Context, g *Group) error {
	_, err := r.groups.ReplaceOne(ctx, bson.M{"_id": g.ID}, g)
	return err
}

func (r *StudentRepository) DeleteGroup(ctx context.Context, ownerID, id primitive.ObjectID) error {
	_, err := r.groups.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	return err
}
