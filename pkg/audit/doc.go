// Package audit records security events for operators. It is the sink for
// tenant isolation violations: the full structured record (tenant identifiers,
// resource identifiers, operation) is persisted here and never returned to
// clients.
//
// # Usage
//
//	storage := audit.NewInMemoryStorage() // or a database-backed Storage
//	log := audit.NewLogger(storage,
//		audit.WithRequestIDExtractor(func(ctx context.Context) (string, bool) {
//			id := requestid.FromContext(ctx)
//			return id, id != ""
//		}),
//	)
//
//	err := log.Record(ctx, "tenant.violation",
//		audit.WithCorrelationID(correlationID),
//		audit.WithTenants("acme", "other-co"),
//	)
//
// # Delivery guarantees
//
// Persistence is best-effort from the caller's perspective: wrap any Storage
// in NewAsyncStorage to make Record non-blocking. A failed or dropped audit
// write is logged locally and must never change the outcome of the request
// that produced it - a rejected request stays rejected.
package audit
