package ws

// Event type constants for WebSocket messages. Subjects match the
// audit stream so a client can correlate both feeds.
const (
	EventLogin        = "auth.login"
	EventLogout       = "auth.logout"
	EventTenantSwitch = "tenancy.switch"
	EventGuardDenied  = "guard.denied"
)

// TenantSwitchEvent is broadcast when the development override changes.
// Open views re-resolve on receipt; the switch is visible on the next
// resolution pass only.
type TenantSwitchEvent struct {
	TenantID *int64 `json:"tenant_id"` // nil when the override was cleared
}

// GuardDeniedEvent is broadcast when a guard bounces a visitor, so the
// UI can surface the notice.
type GuardDeniedEvent struct {
	Area     string `json:"area"`
	Location string `json:"location"`
	Notice   string `json:"notice"`
}
