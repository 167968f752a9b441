package cache

import "strings"

const (
	GlobalKeyPrefix = "pairquiz"
)

// GenerateCacheKey generates a cache key for a given service, object type,
// and identifier. Extra params are joined by "_" and appended.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// OTPKey is the key one user's pending login code is stored under.
func OTPKey(email string) string {
	return GenerateCacheKey("auth", "otp", strings.ToLower(email))
}

// QuizDataKey is the key the quiz catalog snapshot is cached under.
func QuizDataKey() string {
	return GenerateCacheKey("quiz", "catalog", "all")
}
