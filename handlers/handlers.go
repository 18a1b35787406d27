package handlers

import (
	"covenant/services/auth"
	"covenant/services/support"
	"covenant/services/upload"
	"covenant/services/wizard"
)

// HandlerBundle groups the services the HTTP layer depends on.
type HandlerBundle struct {
	AuthService    auth.AuthService
	WizardService  wizard.WizardService
	Uploader       *upload.Coordinator
	SupportService support.SupportService
}
