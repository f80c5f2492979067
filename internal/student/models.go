package student

import "go.mongodb.org/mongo-driver/bson/primitive"

// Student is a teacher-owned roster entry. It may be linked to a platform
// user account, which is how the student-facing notification view is scoped.
type Student struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID primitive.ObjectID `bson:"owner_id"`          // the teacher
	UserID  primitive.ObjectID `bson:"user_id,omitempty"` // linked platform account, zero when none
	Name    string             `bson:"name"`
	Email   string             `bson:"email,omitempty"`
}

type Group struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	OwnerID    primitive.ObjectID   `bson:"owner_id"`
	Name       string               `bson:"name"`
	StudentIDs []primitive.ObjectID `bson:"student_ids"`
}

type StudentRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	UserID string `json:"user_id"` // optional hex id of a platform account
}

type GroupRequest struct {
	Name       string   `json:"name"`
	StudentIDs []string `json:"student_ids"`
}
