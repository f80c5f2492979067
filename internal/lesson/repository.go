package lesson

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Audience scopes a lesson query to one side of the schedule: the owning
// teacher, or the roster entries and groups a student user belongs to.
// Exactly one side is set.
type Audience struct {
	OwnerID    primitive.ObjectID
	StudentIDs []primitive.ObjectID
	GroupIDs   []primitive.ObjectID
}

func (a Audience) filter() bson.M {
	if !a.OwnerID.IsZero() {
		return bson.M{"owner_id": a.OwnerID}
	}
	or := []bson.M{{"student_id": bson.M{"$in": a.StudentIDs}}}
	if len(a.GroupIDs) > 0 {
		or = append(or, bson.M{"group_id": bson.M{"$in": a.GroupIDs}})
	}
	return bson.M{"$or": or}
}

type LessonRepository struct {
	collection *mongo.Collection
}

func NewLessonRepository(db *mongo.Database) *LessonRepository {
	return &LessonRepository{collection: db.Collection("lessons")}
}

func (r *LessonRepository) CreateLesson(ctx context.Context, l *Lesson) error {
	_, err := r.collection.InsertOne(ctx, l)
	return err
}

func (r *LessonRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Lesson, error) {
	var l Lesson
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *LessonRepository) UpdateLesson(ctx context.Context, l *Lesson) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": l.ID}, l)
	return err
}

func (r *LessonRepository) DeleteLesson(ctx context.Context, ownerID, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	return err
}

func (r *LessonRepository) find(ctx context.Context, filter bson.M) ([]*Lesson, error) {
	opts := options.Find().SetSort(bson.M{"date": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var lessons []*Lesson
	if err := cursor.All(ctx, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

// ListBetween returns all lessons for the audience with a start date inside
// [from, to), canceled ones included. Used by the calendar views.
func (r *LessonRepository) ListBetween(ctx context.Context, aud Audience, from, to time.Time) ([]*Lesson, error) {
	filter := aud.filter()
	filter["date"] = bson.M{"$gte": from, "$lt": to}
	return r.find(ctx, filter)
}

// UpcomingBetween returns non-canceled lessons starting inside [from, to].
func (r *LessonRepository) UpcomingBetween(ctx context.Context, aud Audience, from, to time.Time) ([]*Lesson, error) {
	filter := aud.filter()
	filter["date"] = bson.M{"$gte": from, "$lte": to}
	filter["is_canceled"] = false
	return r.find(ctx, filter)
}

// UnpaidBetween returns non-canceled, unpaid, priced lessons starting inside
// [from, to). Callers still filter on the lesson end instant.
func (r *LessonRepository) UnpaidBetween(ctx context.Context, aud Audience, from, to time.Time) ([]*Lesson, error) {
	filter := aud.filter()
	filter["date"] = bson.M{"$gte": from, "$lt": to}
	filter["is_canceled"] = false
	filter["is_paid"] = false
	filter["price"] = bson.M{"$gt": 0}
	return r.find(ctx, filter)
}

// OnDay returns the owner's non-canceled lessons with a start inside
// [dayStart, dayEnd), sorted chronologically.
func (r *LessonRepository) OnDay(ctx context.Context, ownerID primitive.ObjectID, dayStart, dayEnd time.Time) ([]*Lesson, error) {
	return r.find(ctx, bson.M{
		"owner_id":    ownerID,
		"date":        bson.M{"$gte": dayStart, "$lt": dayEnd},
		"is_canceled": false,
	})
}

// CountFuture counts non-canceled lessons at or after the given instant where
// the student is the audience, directly or through one of their groups.
// Lessons already in the past do not count as scheduled.
func (r *LessonRepository) CountFuture(ctx context.Context, studentID primitive.ObjectID, groupIDs []primitive.ObjectID, after time.Time) (int64, error) {
	or := []bson.M{{"student_id": studentID}}
	if len(groupIDs) > 0 {
		or = append(or, bson.M{"group_id": bson.M{"$in": groupIDs}})
	}
	return r.collection.CountDocuments(ctx, bson.M{
		"$or":         or,
		"date":        bson.M{"$gte": after},
		"is_canceled": false,
	})
}

// PastByOwner returns the owner's non-canceled lessons that started before
// the given instant. The debt evaluator filters paid/unpaid per lesson type.
func (r *LessonRepository) PastByOwner(ctx context.Context, ownerID primitive.ObjectID, before time.Time) ([]*Lesson, error) {
	return r.find(ctx, bson.M{
		"owner_id":    ownerID,
		"date":        bson.M{"$lt": before},
		"is_canceled": false,
	})
}
