// Package mongo connects to MongoDB with the official v2 driver.
//
// Config is read from MONGODB_* environment variables. New connects and pings
// with retries; NewWithDatabase returns the configured database handle that
// mongostore builds its collections on. Healthcheck wraps a ping for health
// endpoints.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, "")
//	if err != nil {
//		return err
//	}
//	defer db.Client().Disconnect(context.Background())
package mongo
