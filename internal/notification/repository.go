package notification

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository is the dedupe ledger and the settings store.
type NotificationRepository struct {
	notifications *mongo.Collection
	settings      *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		notifications: db.Collection("notifications"),
		settings:      db.Collection("notification_settings"),
	}
}

// HasFired reports whether a notification with this exact (user, category,
// key) already exists.
func (r *NotificationRepository) HasFired(ctx context.Context, userID primitive.ObjectID, category, key string) (bool, error) {
	count, err := r.notifications.CountDocuments(ctx, bson.M{
		"user_id":  userID,
		"category": category,
		"key":      key,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Record inserts the notification. It returns false when a row with the same
// (user, category, key) already exists: the unique dedupe index makes the
// insert the atomic at-most-once point, so losing the race is not an error.
func (r *NotificationRepository) Record(ctx context.Context, n *Notification) (bool, error) {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	n.CreatedAt = time.Now()
	_, err := r.notifications.InsertOne(ctx, n)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetOrCreateSettings loads the user's notification settings, creating the
// defaults on first access. A concurrent first access is resolved by the
// unique user_id index: the loser of the insert race re-reads the winner's
// document.
func (r *NotificationRepository) GetOrCreateSettings(ctx context.Context, userID primitive.ObjectID) (*Settings, error) {
	var settings Settings
	err := r.settings.FindOne(ctx, bson.M{"user_id": userID}).Decode(&settings)
	if err == nil {
		return &settings, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	defaults := DefaultSettings(userID)
	_, err = r.settings.InsertOne(ctx, defaults)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			err = r.settings.FindOne(ctx, bson.M{"user_id": userID}).Decode(&settings)
			if err != nil {
				return nil, err
			}
			return &settings, nil
		}
		return nil, err
	}
	return defaults, nil
}

func (r *NotificationRepository) UpdateSettings(ctx context.Context, settings *Settings) error {
	res, err := r.settings.ReplaceOne(ctx, bson.M{"user_id": settings.UserID}, settings)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("settings not found")
	}
	return nil
}

// ListInbox returns the user's visible notifications, newest first. Internal
// marker rows (empty message) are excluded.
func (r *NotificationRepository) ListInbox(ctx context.Context, userID primitive.ObjectID, limit int64) ([]*Notification, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit)
	cursor, err := r.notifications.Find(ctx, bson.M{
		"user_id": userID,
		"message": bson.M{"$ne": ""},
	}, opts)
	if err != nil {
		return nil, err
	}
	var notifications []*Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id primitive.ObjectID) error {
	res, err := r.notifications.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("notification not found")
	}
	return nil
}
