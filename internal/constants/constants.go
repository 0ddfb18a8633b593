package constants

// Audit actions.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Audited entities.
const (
	EntityUser               = "User"
	EntityOperator           = "Operator"
	EntityService            = "Service"
	EntityRawMaterial        = "RawMaterial"
	EntityServiceRawMaterial = "ServiceRawMaterial"
)

// Event types published after a tracking transaction commits.
const (
	EventSessionStart       = "session.start"
	EventSessionPause       = "session.pause"
	EventSessionResume      = "session.resume"
	EventSessionEnd         = "session.end"
	EventProductionStart    = "production.start"
	EventProductionFinish   = "production.finish"
	EventProductionIncrease = "production.increment"
	EventPreparationStart   = "preparation.start"
	EventPreparationFinish  = "preparation.finish"
	EventServiceCompleted   = "service.completed"
)

// Session actions accepted by the floor API.
const (
	SessionActionStart  = "start"
	SessionActionPause  = "pause"
	SessionActionResume = "resume"
	SessionActionEnd    = "end"
)

// Timer actions accepted by the preparation and piece timer endpoints.
const (
	TimerActionStart  = "start"
	TimerActionFinish = "finish"
)
