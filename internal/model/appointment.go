package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusScheduled, AppointmentStatusCancelled:
		return true
	}
	return false
}

// AppointmentData is the document body stored in the appointments collection
type AppointmentData struct {
	UserID             string            `json:"userId"`
	Patient            Ref               `json:"patient"`
	PrimaryPhysician   string            `json:"primaryPhysician"`
	Specialty          string            `json:"specialty"`
	Schedule           time.Time         `json:"schedule"`
	Status             AppointmentStatus `json:"status"`
	Reason             string            `json:"reason"`
	Note               string            `json:"note"`
	CancellationReason string            `json:"cancellationReason"`
}

type Appointment struct {
	Base
	AppointmentData
}

// AppointmentStats is the admin dashboard listing
type AppointmentStats struct {
	TotalCount     int           `json:"totalCount"`
	ScheduledCount int           `json:"scheduledCount"`
	PendingCount   int           `json:"pendingCount"`
	CancelledCount int           `json:"cancelledCount"`
	Documents      []Appointment `json:"documents"`
}

// Count tallies an appointment into the per-status counters. Unknown statuses are ignored.
func (s *AppointmentStats) Count(a Appointment) {
	switch a.Status {
	case AppointmentStatusScheduled:
		s.ScheduledCount++
	case AppointmentStatusPending:
		s.PendingCount++
	case AppointmentStatusCancelled:
		s.CancelledCount++
	}
}
