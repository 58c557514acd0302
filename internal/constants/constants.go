package constants

const (
	// ContextKeyUserID is used for both the session key and the gin context key.
	ContextKeyUserID = "user_id"
	// ContextKeyRequestID holds the per-request correlation id.
	ContextKeyRequestID = "request_id"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "todorace_session"
	// HeaderRequestID carries the request id back to the client.
	HeaderRequestID = "X-Request-ID"

	MinUsernameLength = 3
	MaxUsernameLength = 20
	MinPasswordLength = 8
	// bcrypt rejects passwords longer than 72 bytes.
	MaxPasswordBytes = 72

	MinGroupNameLength = 3
	MaxGroupNameLength = 30

	MaxTaskTitleLength = 200

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxAISuggestedTasks caps the number of tasks accepted from one AI response.
	MaxAISuggestedTasks = 20
)
