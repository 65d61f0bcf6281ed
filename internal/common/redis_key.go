package common

import "fmt"

func RedisKeyClaimLock(requestID string) string {
	return fmt.Sprintf("lottery:claim:%s", requestID)
}

func RedisKeyNativePrice(feedID string) string {
	return fmt.Sprintf("oracle:price:%s", feedID)
}
