package domain

// SignalKind names the category of a remote change notification.
type SignalKind string

const (
	SignalCreated SignalKind = "created"
	SignalUpdated SignalKind = "updated"
	SignalDeleted SignalKind = "deleted"
)

// ChangeSignal is the unit delivered by the push boundary. It deliberately
// carries no task id or payload; every kind triggers the same full refetch.
// Signals are ephemeral and never stored.
type ChangeSignal struct {
	Kind SignalKind `json:"kind"`
}
