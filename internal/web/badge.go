package web

import "github.com/jwalitptl/caretrack/internal/model"

// Badge is how an appointment status is drawn
type Badge struct {
	Status model.AppointmentStatus
	Icon   string
	Color  string
}

var badges = map[model.AppointmentStatus]Badge{
	model.AppointmentStatusPending:   {Status: model.AppointmentStatusPending, Icon: "/assets/icons/pending.svg", Color: "blue"},
	model.AppointmentStatusScheduled: {Status: model.AppointmentStatusScheduled, Icon: "/assets/icons/check.svg", Color: "green"},
	model.AppointmentStatusCancelled: {Status: model.AppointmentStatusCancelled, Icon: "/assets/icons/cancelled.svg", Color: "red"},
}

// StatusBadge looks up the badge of a status. ok is false for an unknown status.
func StatusBadge(status model.AppointmentStatus) (Badge, bool) {
	b, ok := badges[status]
	return b, ok
}
