package notification

import (
	"TutorPlanner/internal/auth"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakePusher struct {
	sent []string
	err  error
}

func (p *fakePusher) Push(chatID int64, text string) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, text)
	return nil
}

func deliveryFixture() (*Delivery, *fakePusher, *auth.User, *Settings) {
	pusher := &fakePusher{}
	user := &auth.User{ID: primitive.NewObjectID(), TelegramChatID: 42}
	settings := DefaultSettings(user.ID)
	settings.DeliveryTelegram = true
	return &Delivery{pusher: pusher}, pusher, user, settings
}

func TestDelivery_Sends(t *testing.T) {
	d, pusher, user, settings := deliveryFixture()
	noon := time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)

	if !d.Send(user, settings, noon, "hello") {
		t.Fatal("send should succeed")
	}
	if len(pusher.sent) != 1 || pusher.sent[0] != "hello" {
		t.Fatalf("want one push, got %v", pusher.sent)
	}
}

func TestDelivery_OptOutCountsAsSuccess(t *testing.T) {
	d, pusher, user, settings := deliveryFixture()
	noon := time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)

	settings.DeliveryTelegram = false
	if !d.Send(user, settings, noon, "hello") {
		t.Fatal("opted-out user still counts as delivered")
	}

	settings.DeliveryTelegram = true
	user.TelegramChatID = 0
	if !d.Send(user, settings, noon, "hello") {
		t.Fatal("user without a linked chat still counts as delivered")
	}
	if len(pusher.sent) != 0 {
		t.Fatalf("nothing should have been pushed, got %v", pusher.sent)
	}
}

func TestDelivery_QuietHoursSuppressPushOnly(t *testing.T) {
	d, pusher, user, settings := deliveryFixture()
	settings.QuietHoursEnabled = true // window stays at the 22:00-08:00 default

	lateEvening := time.Date(2025, time.June, 2, 23, 0, 0, 0, time.UTC)
	if !d.Send(user, settings, lateEvening, "hello") {
		t.Fatal("quiet-hours suppression must still report success")
	}
	if len(pusher.sent) != 0 {
		t.Fatalf("no push expected during quiet hours, got %v", pusher.sent)
	}
}

func TestDelivery_PushFailure(t *testing.T) {
	d, pusher, user, settings := deliveryFixture()
	pusher.err = errors.New("chat blocked")

	noon := time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)
	if d.Send(user, settings, noon, "hello") {
		t.Fatal("a failed push must report failure")
	}
}
