// Package redis connects to Redis with go-redis/v9.
//
// Connect parses REDIS_URL, pings with retries and returns a ready client.
// Healthcheck wraps a ping for health endpoints. The device cache in package
// devicecache is the main consumer.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
package redis
