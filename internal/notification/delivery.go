package notification

import (
	"TutorPlanner/internal/auth"
	"TutorPlanner/internal/config"
	"log"
	"time"
)

// Pusher is the transport the delivery channel pushes through.
type Pusher interface {
	Push(chatID int64, text string) error
}

// Delivery is the push side of a fired rule. It owns the quiet-hours and
// opt-out checks: suppression counts as success, so the caller still records
// the in-app row; only an attempted push that fails reports failure.
type Delivery struct {
	pusher Pusher
}

func NewDelivery(bot *config.TelegramBot) *Delivery {
	return &Delivery{pusher: bot}
}

// Send pushes the message to the user's linked chat. Returns true when
// nothing further is owed to the user: the push went out, or the user opted
// out, has no linked chat, or is inside their quiet hours.
func (d *Delivery) Send(user *auth.User, settings *Settings, localNow time.Time, message string) bool {
	if !settings.DeliveryTelegram || user.TelegramChatID == 0 {
		return true
	}
	if settings.QuietHoursEnabled && inQuietWindow(localNow, settings.QuietHoursStart, settings.QuietHoursEnd) {
		return true
	}
	if err := d.pusher.Push(user.TelegramChatID, message); err != nil {
		log.Printf("Failed to push notification to user %s: %v", user.ID.Hex(), err)
		return false
	}
	return true
}
