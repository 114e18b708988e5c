package tenant

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/facilitykit/pkg/audit"
)

// ViolationCode is the machine-readable code carried by every rejection.
// It is deliberately uniform across violation kinds so the response reveals
// nothing about what exactly was detected.
const ViolationCode = "TENANT_ISOLATION_VIOLATION"

// violationAction is the audit action recorded for every violation.
const violationAction = "tenant.violation"

// ErrorResponse is the sanitized envelope returned to clients on a violation.
// It contains only a correlation identifier and a generic message: tenant and
// resource identifiers are exactly the information a probing attacker wants
// confirmed, so they flow to the audit trail only.
type ErrorResponse struct {
	Timestamp     time.Time `json:"timestamp"`
	Path          string    `json:"path"`
	Code          string    `json:"code"`
	Message       string    `json:"message"`
	CorrelationID string    `json:"correlation_id"`
}

// ViolationHandler is the single boundary that converts detected violations
// into audited, sanitized rejections. No intermediate layer may catch a
// violation and continue past it; everything funnels here.
type ViolationHandler struct {
	auditor audit.Logger
	log     *slog.Logger
}

// NewViolationHandler creates the boundary handler. The audit logger is
// mandatory: a violation without an audit record is itself a defect.
func NewViolationHandler(auditor audit.Logger, log *slog.Logger) *ViolationHandler {
	if auditor == nil {
		panic("tenant: audit logger cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ViolationHandler{auditor: auditor, log: log}
}

// Handle records the violation and writes the sanitized 403 response.
// The audit write is one-way: if it fails, the failure is logged locally and
// the request remains rejected. Audit trouble never converts a rejection
// into an acceptance.
func (h *ViolationHandler) Handle(w http.ResponseWriter, r *http.Request, v *Violation) {
	correlationID := uuid.New().String()

	opts := []audit.EventOption{
		audit.WithCorrelationID(correlationID),
		audit.WithOperation(v.Operation),
		audit.WithPath(r.URL.Path),
		audit.WithMetadata("kind", string(v.Kind)),
	}
	if !v.UserTenant.IsZero() || !v.RequestedTenant.IsZero() {
		opts = append(opts, audit.WithTenants(v.UserTenant.String(), v.RequestedTenant.String()))
	}
	if v.ResourceType != "" {
		opts = append(opts, audit.WithResource(v.ResourceType, v.ResourceID))
	}

	if err := h.auditor.Record(r.Context(), violationAction, opts...); err != nil {
		h.log.ErrorContext(r.Context(), "failed to record tenant violation",
			slog.String("correlation_id", correlationID),
			slog.Any("error", err),
		)
	}

	h.log.WarnContext(r.Context(), "tenant isolation violation rejected",
		slog.String("correlation_id", correlationID),
		slog.String("kind", string(v.Kind)),
	)

	writeErrorResponse(w, r, correlationID)
}

// HandleError routes err to Handle if it carries a violation.
// Returns true when the error was a violation and the response has been
// written; callers must not write anything further in that case.
func (h *ViolationHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) bool {
	v, ok := AsViolation(err)
	if !ok {
		return false
	}
	h.Handle(w, r, v)
	return true
}

func writeErrorResponse(w http.ResponseWriter, r *http.Request, correlationID string) {
	resp := ErrorResponse{
		Timestamp:     time.Now().UTC(),
		Path:          r.URL.Path,
		Code:          ViolationCode,
		Message:       "access denied",
		CorrelationID: correlationID,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(resp)
}
