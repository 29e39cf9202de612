package cache

import "strings"

const (
	GlobalKeyPrefix = "learnassist"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// SessionUserKey is where the session store keeps the signed-in user.
func SessionUserKey(sessionID string) string {
	return GenerateCacheKey("session", "user", sessionID)
}

func QuizStateKey(sessionID string) string {
	return GenerateCacheKey("quiz", "state", sessionID)
}

func ChatExchangeKey(sessionID string) string {
	return GenerateCacheKey("chat", "exchange", sessionID)
}

func ChatInFlightKey(sessionID string) string {
	return GenerateCacheKey("chat", "inflight", sessionID)
}

func ImageSelectionKey(sessionID string) string {
	return GenerateCacheKey("image", "selection", sessionID)
}

// ImageUploadLockKey is held while the session's image is being uploaded.
func ImageUploadLockKey(sessionID string) string {
	return GenerateCacheKey("image", "uploading", sessionID)
}

func ImagePreviewKey(previewID string) string {
	return GenerateCacheKey("image", "preview", previewID)
}

func RegistrationKey(registrationID string) string {
	return GenerateCacheKey("registration", "wizard", registrationID)
}
