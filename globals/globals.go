package globals

type contextKey string

const (
	UserIDKey  contextKey = "userId"
	IsAdminKey contextKey = "isAdmin"
)
