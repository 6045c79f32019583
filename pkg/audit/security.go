// Package audit provides security audit logging for SIEM consumption.
// Memory tool arguments arrive straight from an LLM, so every string
// argument is scanned for injection patterns before it touches the store.
// Detections are logged, never blocked: memory text legitimately quotes
// hostile-looking content.
package audit

import (
	"context"
	"encoding/json"
	"time"

	libinjection "github.com/corazawaf/libinjection-go"
	"go.uber.org/zap"
)

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventInjectionAttempt is logged when libinjection flags a tool argument.
	EventInjectionAttempt SecurityEventType = "injection_attempt"
	// EventDestructiveOperation is logged when a scope-wide delete executes.
	EventDestructiveOperation SecurityEventType = "destructive_operation"
)

// SecurityEvent represents an auditable security event with all relevant
// context for SIEM ingestion and analysis.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	UserID    string            `json:"user_id,omitempty"`
	ProjectID string            `json:"project_id,omitempty"`
	ToolName  string            `json:"tool_name"`
	Details   any               `json:"details"`
	Severity  string            `json:"severity"` // info, warning, critical
}

// InjectionDetails contains specifics of a flagged tool argument.
type InjectionDetails struct {
	ArgName     string `json:"arg_name"`
	ArgValue    string `json:"arg_value"`
	Fingerprint string `json:"fingerprint"` // libinjection fingerprint for pattern analysis
}

// ScanArguments checks every string-valued tool argument for SQL injection
// patterns. Non-string values cannot carry injection and are skipped.
// Returns one InjectionDetails per flagged argument, empty when clean.
func ScanArguments(args map[string]any) []InjectionDetails {
	var flagged []InjectionDetails
	for name, value := range args {
		str, ok := value.(string)
		if !ok {
			continue
		}
		if isSQLi, fingerprint := libinjection.IsSQLi(str); isSQLi {
			flagged = append(flagged, InjectionDetails{
				ArgName:     name,
				ArgValue:    str,
				Fingerprint: string(fingerprint),
			})
		}
	}
	return flagged
}

// SecurityAuditor logs security events for SIEM consumption.
// Events are logged in structured JSON format with appropriate severity levels.
type SecurityAuditor struct {
	logger *zap.Logger
}

// NewSecurityAuditor creates a security auditor under the "security_audit"
// logger namespace for easy filtering in SIEM systems.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{logger: logger.Named("security_audit")}
}

// AuditToolCall scans the arguments of a memory tool invocation and logs a
// warning event for each flagged value. The call is never rejected; the
// store treats memory text as opaque, so a detection here is signal for
// monitoring, not grounds to drop a write.
func (a *SecurityAuditor) AuditToolCall(ctx context.Context, userID, projectID, toolName string, args map[string]any) {
	for _, details := range ScanArguments(args) {
		a.logInjectionAttempt(userID, projectID, toolName, details)
	}
}

func (a *SecurityAuditor) logInjectionAttempt(userID, projectID, toolName string, details InjectionDetails) {
	event := SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventInjectionAttempt,
		UserID:    userID,
		ProjectID: projectID,
		ToolName:  toolName,
		Details:   details,
		Severity:  "warning",
	}

	// Marshaling known types never fails.
	eventJSON, _ := json.Marshal(event)

	a.logger.Warn("Injection pattern in tool argument",
		zap.String("event_json", string(eventJSON)),
		zap.String("tool_name", toolName),
		zap.String("arg_name", details.ArgName),
		zap.String("fingerprint", details.Fingerprint),
		zap.String("user_id", userID),
		zap.String("project_id", projectID),
		zap.String("severity", "warning"),
	)
}

// LogDestructiveOperation records a scope-wide delete for the audit trail.
// Logged at WARN level so bulk deletions stand out in monitoring.
func (a *SecurityAuditor) LogDestructiveOperation(ctx context.Context, userID, projectID, toolName string, itemsRemoved int) {
	event := SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventDestructiveOperation,
		UserID:    userID,
		ProjectID: projectID,
		ToolName:  toolName,
		Details: map[string]any{
			"items_removed": itemsRemoved,
		},
		Severity: "warning",
	}

	eventJSON, _ := json.Marshal(event)

	a.logger.Warn("Destructive memory operation executed",
		zap.String("event_json", string(eventJSON)),
		zap.String("tool_name", toolName),
		zap.Int("items_removed", itemsRemoved),
		zap.String("user_id", userID),
		zap.String("project_id", projectID),
		zap.String("severity", "warning"),
	)
}
