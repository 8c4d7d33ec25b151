package recipes

import (
	"fmt"

	"chudobludo/apperr"
	"chudobludo/models"
)

// Moderation actions applied over PUT /recipes/:id/<action>.
const (
	ActionApprove    = "approve"
	ActionReject     = "reject"
	ActionReconsider = "reconsider"
)

// nextStatus applies the moderation state machine. An illegal transition is
// a Conflict: approving a published recipe, rejecting anything but a
// pending one, reconsidering anything but a rejected one.
func nextStatus(current, action string) (string, *apperr.Error) {
	switch action {
	case ActionApprove:
		if current == models.StatusPublished {
			return "", apperr.New(apperr.Conflict, "recipe is already published")
		}
		return models.StatusPublished, nil
	case ActionReject:
		if current != models.StatusPending {
			return "", apperr.New(apperr.Conflict, fmt.Sprintf("cannot reject a %s recipe", current))
		}
		return models.StatusRejected, nil
	case ActionReconsider:
		if current != models.StatusRejected {
			return "", apperr.New(apperr.Conflict, fmt.Sprintf("cannot reconsider a %s recipe", current))
		}
		return models.StatusPending, nil
	default:
		return "", apperr.New(apperr.NotFound, "unknown action")
	}
}

// statusAfterEdit decides where an edited recipe lands: an admin edit keeps
// the current status, anyone else's edit forces re-moderation.
func statusAfterEdit(isAdmin bool, current string) string {
	if isAdmin {
		return current
	}
	return models.StatusPending
}
