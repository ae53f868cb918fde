package audit

import (
	"context"

	corecontext "cuentas/internal/core/context"
)

// EnrichCreatedBy stamps both author fields from the authenticated user.
// Meant for before-create hooks. Does nothing for anonymous contexts,
// such as seed and worker runs.
func EnrichCreatedBy(ctx context.Context, createdBy, updatedBy *string) {
	userID := corecontext.GetUserID(ctx)
	if userID == "" || createdBy == nil || updatedBy == nil {
		return
	}
	*createdBy = userID
	*updatedBy = userID
}

// EnrichUpdatedBy stamps only the editor field, for before-update hooks.
func EnrichUpdatedBy(ctx context.Context, updatedBy *string) {
	userID := corecontext.GetUserID(ctx)
	if userID == "" || updatedBy == nil {
		return
	}
	*updatedBy = userID
}
