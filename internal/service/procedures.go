package service

const (
	EventServiceName    = "onbeventi.v1.EventService"
	SettingsServiceName = "onbeventi.v1.SettingsService"
	AuthServiceName     = "onbeventi.v1.AuthService"
)

// Procedure paths, in the form connect-go generates them.
const (
	CreateEventProcedure         = "/" + EventServiceName + "/CreateEvent"
	UpdateEventProcedure         = "/" + EventServiceName + "/UpdateEvent"
	GetEventProcedure            = "/" + EventServiceName + "/GetEvent"
	ListEventsProcedure          = "/" + EventServiceName + "/ListEvents"
	DeleteEventProcedure         = "/" + EventServiceName + "/DeleteEvent"
	AddAttendeeProcedure         = "/" + EventServiceName + "/AddAttendee"
	UpdateAttendeeProcedure      = "/" + EventServiceName + "/UpdateAttendee"
	TogglePaymentStatusProcedure = "/" + EventServiceName + "/TogglePaymentStatus"
	DeleteAttendeeProcedure      = "/" + EventServiceName + "/DeleteAttendee"
	AddExpenseProcedure          = "/" + EventServiceName + "/AddExpense"
	DeleteExpenseProcedure       = "/" + EventServiceName + "/DeleteExpense"
	GetDashboardProcedure        = "/" + EventServiceName + "/GetDashboard"
	GenerateDescriptionProcedure = "/" + EventServiceName + "/GenerateDescription"

	GetSettingsProcedure = "/" + SettingsServiceName + "/GetSettings"
	SetAPIKeyProcedure   = "/" + SettingsServiceName + "/SetAPIKey"

	LoginProcedure = "/" + AuthServiceName + "/Login"
)
