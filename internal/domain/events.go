package domain

import "time"

// EventLevel mirrors the four severities an Event may carry.
type EventLevel string

const (
	LevelInfo  EventLevel = "info"
	LevelWarn  EventLevel = "warn"
	LevelError EventLevel = "error"
	LevelDebug EventLevel = "debug"
)

// EventType is a closed enumeration of every event the engine may emit.
type EventType string

const (
	EventRunStarted           EventType = "run_started"
	EventProjectLoaded        EventType = "project_loaded"
	EventExecutionPlan        EventType = "execution_plan"
	EventNetworkStarted       EventType = "network_started"
	EventNetworkSignerInfo    EventType = "network_signer_info"
	EventJobStarted           EventType = "job_started"
	EventJobCompleted         EventType = "job_completed"
	EventJobExecutionFailed   EventType = "job_execution_failed"
	EventActionStarted        EventType = "action_started"
	EventActionSkipped        EventType = "action_skipped"
	EventActionCompleted      EventType = "action_completed"
	EventActionFailed         EventType = "action_failed"
	EventTemplateEntered      EventType = "template_entered"
	EventTemplateExited       EventType = "template_exited"
	EventTemplateSkipped      EventType = "template_skipped"
	EventTemplateSetupSkipped EventType = "template_setup_skipped"
	EventTransactionSent      EventType = "transaction_sent"
	EventTransactionConfirmed EventType = "transaction_confirmed"
	EventContractCreated      EventType = "contract_created"
	EventPluginActionFailed   EventType = "plugin_action_failed"
	EventDuplicateArtifact    EventType = "duplicate_artifact_warning"
	EventVerificationResult   EventType = "verification_result"
	EventContextDisposalWarn  EventType = "context_disposal_warning"
	EventRunSummary           EventType = "run_summary"
	EventDeploymentCompleted  EventType = "deployment_completed"
	EventDeploymentFailed     EventType = "deployment_failed"
	EventCLIError             EventType = "cli_error"
)

// Event is the unit published on the Emitter. Data is a free-form payload
// whose shape is documented per EventType.
type Event struct {
	Type      EventType
	Level     EventLevel
	Timestamp time.Time
	RunID     string
	Data      any
}

// Verbosity maps each EventType to the minimum CLI verbosity level (0-3)
// required to render it. Unknown types default to level 3.
func Verbosity(t EventType) int {
	if level, ok := eventVerbosity[t]; ok {
		return level
	}
	return 3
}

var eventVerbosity = map[EventType]int{
	EventDeploymentCompleted: 0,
	EventDeploymentFailed:    0,
	EventJobStarted:          0,
	EventJobCompleted:        0,
	EventJobExecutionFailed:  0,
	EventNetworkStarted:      0,
	EventDuplicateArtifact:   0,
	EventCLIError:            0,

	EventProjectLoaded:        1,
	EventExecutionPlan:        1,
	EventTransactionSent:      1,
	EventTransactionConfirmed: 1,
	EventContractCreated:      1,
	EventVerificationResult:   1,
	EventRunSummary:           1,
	EventNetworkSignerInfo:    1,

	EventActionStarted:        2,
	EventActionSkipped:        2,
	EventTemplateSetupSkipped: 2,

	EventTemplateEntered: 3,
	EventTemplateExited:  3,
	EventActionCompleted: 3,
	EventActionFailed:    3,
	EventTemplateSkipped: 3,
}
