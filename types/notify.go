package types

// Notification represents a notification message structure
type Notification struct {
	Type    string         `json:"type,omitempty"`    // Notification type, e.g. "banner", "task_started", etc.
	Title   string         `json:"title,omitempty"`   // Notification title
	Message string         `json:"message,omitempty"` // Notification message/content
	Data    map[string]any `json:"data,omitempty"`    // Additional data fields
}

// Notification types broadcast over the notify websocket
const (
	NotifyTypeBanner        = "banner"
	NotifyTypeAffordance    = "affordance"
	NotifyTypeTaskStarted   = "task_started"
	NotifyTypeTaskProgress  = "task_progress"
	NotifyTypeTaskCompleted = "task_completed"
	NotifyTypeCardAppended  = "card_appended"
)
