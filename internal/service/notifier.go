package service

// Notification kinds pushed to connected clients on workflow milestones
const (
	NotifyRequestCreated   = "request_created"
	NotifyRequestApproved  = "request_approved"
	NotifyRequestRejected  = "request_rejected"
	NotifyRequestDisbursed = "request_disbursed"
)

// Notifier is the fire-and-forget notification collaborator. It is called
// after a transition commits; a failing or absent notifier must never fail
// the underlying operation.
type Notifier interface {
	Notify(kind, refNumber string)
}

type noopNotifier struct{}

func (noopNotifier) Notify(kind, refNumber string) {}

// NopNotifier returns a Notifier that discards all notifications
func NopNotifier() Notifier {
	return noopNotifier{}
}
