package utils

import (
	"context"

	"chudobludo/globals"
)

func GetUserIDFromContext(ctx context.Context) string {
	userID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

func IsAdminFromContext(ctx context.Context) bool {
	isAdmin, ok := ctx.Value(globals.IsAdminKey).(bool)
	return ok && isAdmin
}
