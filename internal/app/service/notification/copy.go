package notification

import (
	"fmt"

	"github.com/suniorfit/backend/pkg/types"
)

// fillFallbackCopy fills missing title/message fields from the per-type
// templates. The product ships Arabic-first copy; the plain fields default to
// the Arabic text when no explicit override is given, matching the mobile
// client's expectations.
func fillFallbackCopy(typ types.NotificationType, p *Payload) {
	var titleAr, messageAr string

	switch typ {
	case types.NotificationTypeTraineePurchase:
		traineeName := stringField(p.Data, "trainee_name")
		if traineeName == "" {
			traineeName = stringField(p.Data, "trainee_id")
		}
		if traineeName == "" {
			traineeName = "متدرب"
		}
		planType := stringField(p.Data, "plan_type")
		titleAr = fmt.Sprintf("شراء جديد من %s", traineeName)
		messageAr = fmt.Sprintf("%s اشترى خطة %s.", traineeName, planType)
	case types.NotificationTypePlanCreated:
		planName := stringField(p.Data, "plan_title")
		if planName != "" {
			titleAr = fmt.Sprintf("تم إنشاء خطة %s", planName)
			messageAr = fmt.Sprintf("الخطة %s أصبحت متاحة.", planName)
		} else {
			titleAr = "تم إنشاء خطة جديدة"
			messageAr = "تمت إضافة خطة جديدة."
		}
	default:
		titleAr = "إشعار جديد"
		messageAr = "لديك إشعار جديد."
	}

	if p.TitleAr == "" {
		p.TitleAr = titleAr
	}
	if p.MessageAr == "" {
		p.MessageAr = messageAr
	}
	if p.Title == "" {
		p.Title = p.TitleAr
	}
	if p.Message == "" {
		p.Message = p.MessageAr
	}
}

func stringField(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	switch v := data[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}
