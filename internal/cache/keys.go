package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache keys and TTLs for read-heavy endpoints.
const (
	ProfileListKey = "profiles:all"

	ProfileListTTL = 5 * time.Minute
	GithubReposTTL = 10 * time.Minute
)

// GithubReposKey returns the cache key for a user's GitHub repository list.
func GithubReposKey(username string) string {
	return fmt.Sprintf("github:repos:%s", username)
}

// InvalidateProfiles drops the cached profile list after any profile write.
func InvalidateProfiles(ctx context.Context) {
	Delete(ctx, ProfileListKey)
}
