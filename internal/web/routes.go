package web

import (
	"fmt"
	"net/url"
)

const (
	AdminPath      = "/admin"
	AdminLoginPath = "/admin/login"
	ExportPath     = "/admin/appointments/export"
)

func RegisterURL(userID string) string {
	return fmt.Sprintf("/patients/%s/register", url.PathEscape(userID))
}

func NewAppointmentURL(userID string) string {
	return fmt.Sprintf("/patients/%s/new-appointment", url.PathEscape(userID))
}

// SuccessURL is where a patient lands after booking an appointment
func SuccessURL(userID, appointmentID string) string {
	return NewAppointmentURL(userID) + "/success?appointmentId=" + url.QueryEscape(appointmentID)
}

func DialogURL(appointmentID, mode string) string {
	return fmt.Sprintf("/admin/appointments/%s/%s", url.PathEscape(appointmentID), mode)
}

// UpdatedURL returns to the dashboard with the update toast shown
func UpdatedURL() string {
	return AdminPath + "?updated=1"
}
