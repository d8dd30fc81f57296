package httpx

import "context"

type ctxKey string

const (
	CtxKeyEmpID     ctxKey = "emp_id"
	CtxKeySessionID ctxKey = "session_id"
	CtxKeyStage     ctxKey = "stage"
	CtxKeyClaims    ctxKey = "claims" // full jwtx.Claims when needed
)

// EmpIDFromCtx returns the authenticated employee ID, or "" when absent.
func EmpIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyEmpID).(string); ok {
		return v
	}
	return ""
}

func stageFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyStage).(string); ok {
		return v
	}
	return ""
}
