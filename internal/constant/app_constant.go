package constant

import "time"

const (
	ServiceName = "sumii-mobile-api"

	DefaultConversationLimit = 50
	DefaultNotificationLimit = 20

	MaxUploadBytes = 10 * 1024 * 1024

	PasswordResetTTL     = time.Hour
	EmailVerificationTTL = 24 * time.Hour

	// Presigned URL lifetime in seconds, echoed to clients as expires_in.
	PresignExpirySeconds = 7 * 24 * 60 * 60

	MaxFunctionRounds = 3
)

// AllowedUploadTypes maps accepted MIME types to a short kind.
var AllowedUploadTypes = map[string]string{
	"application/pdf": "pdf",
	"image/jpeg":      "image",
	"image/jpg":       "image",
	"image/png":       "image",
	"image/heic":      "image",
	"image/heif":      "image",
}

// Redis keys and channels.
const (
	RedisAgentsKey     = "sumii:agents"
	RedisClusterEvents = "sumii:cluster_events"
	RedisLoginLimitKey = "sumii:ratelimit:login:"
)

// In-process topics.
const (
	TopicOcrRequested = "document.ocr.requested"
)

// Client-facing error messages.
const (
	MsgEmailRegistered      = "Email already registered"
	MsgInvalidCredentials   = "Invalid credentials"
	MsgInvalidToken         = "Invalid or expired token"
	MsgTooManyRequests      = "Too many requests"
	MsgConversationNotFound = "Conversation not found"
	MsgDocumentNotFound     = "Document not found"
	MsgSummaryNotFound      = "Summary not found"
	MsgConnectionNotFound   = "Connection not found"
	MsgNotificationNotFound = "Notification not found"
	MsgUserNotFound         = "User not found"
	MsgLawyerNotFound       = "Lawyer not found"
	MsgMessageNotFound      = "Message not found"
	MsgNoMessages           = "Conversation has no messages. Please chat with the legal assistant before generating a summary."
	MsgAgentUnavailable     = "AI agents are not available"
	MsgNotAuthorized        = "Not authorized to access this resource"
	MsgFileTooLarge         = "File too large (max 10MB)"
	MsgUnsupportedFile      = "Unsupported file type"
	MsgSummaryExists        = "Summary already exists for this conversation"
	MsgConnectionExists     = "Connection already exists for this conversation and lawyer"
	MsgInvalidTransition    = "Invalid status transition"
	MsgInvalidPushToken     = "Invalid push token format. Must start with 'ExponentPushToken['"
	MsgCouldNotValidate     = "Could not validate credentials"
	MsgInactiveUser         = "Inactive user"
)

// Notification texts shown in the app and in push messages.
const (
	NotifySummaryReadyTitle     = "Zusammenfassung bereit"
	NotifySummaryReadyMessage   = "Ihre rechtliche Zusammenfassung ist jetzt verfügbar"
	NotifyLawyerResponseTitle   = "Anwalt hat geantwortet"
	NotifyLawyerResponseMessage = "Ihr Anwalt %s hat auf Ihren Fall geantwortet."
	NotifyLawyerAssignedTitle   = "Anwalt hat Ihren Fall angenommen"
	NotifyLawyerAssignedMessage = "%s hat Ihre Anfrage angenommen."
	NotifyCaseUpdatedTitle      = "Update zu Ihrem Fall"
	NotifyCaseRejectedMessage   = "%s kann Ihren Fall leider nicht übernehmen."
)
