package cache

import "fmt"

func IndexEntryKey(organizationName string) string {
	return fmt.Sprintf("org:index:%s", organizationName)
}

func RateLimitKey(client string) string {
	return fmt.Sprintf("ratelimit:%s", client)
}
