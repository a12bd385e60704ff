package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key for a user's login session (JTI).
func (r *CacheKeyStruct) UserSessionKey(userID int) string {
	return fmt.Sprintf("login:%d", userID)
}

// VisibleQuestionsKey returns the cache key for the student-visible
// question catalog (approved + active questions).
func (r *CacheKeyStruct) VisibleQuestionsKey() string {
	return "questions:visible"
}

var CacheKey = NewCacheKeyStruct()
