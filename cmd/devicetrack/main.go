// Command devicetrack is a reference HTTP server that identifies the device
// behind every request and keeps its IP history.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/devicetrack/pkg/clientip"
	"github.com/dmitrymomot/devicetrack/pkg/config"
	"github.com/dmitrymomot/devicetrack/pkg/device"
	"github.com/dmitrymomot/devicetrack/pkg/devicecache"
	"github.com/dmitrymomot/devicetrack/pkg/geo"
	"github.com/dmitrymomot/devicetrack/pkg/httpserver"
	"github.com/dmitrymomot/devicetrack/pkg/iplog"
	"github.com/dmitrymomot/devicetrack/pkg/logger"
	mongodb "github.com/dmitrymomot/devicetrack/pkg/mongo"
	"github.com/dmitrymomot/devicetrack/pkg/mongostore"
	"github.com/dmitrymomot/devicetrack/pkg/pg"
	"github.com/dmitrymomot/devicetrack/pkg/pgstore"
	"github.com/dmitrymomot/devicetrack/pkg/redis"
	"github.com/dmitrymomot/devicetrack/pkg/tracker"
)

const (
	driverMemory   = "memory"
	driverPostgres = "postgres"
	driverMongo    = "mongo"
)

type appConfig struct {
	Env                string `env:"APP_ENV" envDefault:"development"`
	StorageDriver      string `env:"STORAGE_DRIVER" envDefault:"memory"`
	TrackingFailClosed bool   `env:"TRACKING_FAIL_CLOSED" envDefault:"false"`
}

// backend is a storage driver wired up for the device and IP history stores.
type backend struct {
	devices device.Store
	ipLogs  iplog.Store
	checks  []httpserver.Check
	close   func(context.Context)
}

func main() {
	if err := run(); err != nil {
		slog.Error("devicetrack stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run() error {
	var app appConfig
	if err := config.Load(&app); err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(app.Env, "devicetrack"),
		logger.WithContextExtractors(requestIDExtractor, deviceIDExtractor, clientIPExtractor),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var geoCfg geo.Config
	if err := config.Load(&geoCfg); err != nil {
		return err
	}
	geoResolver, err := geo.Open(geoCfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := geoResolver.Close(); err != nil {
			log.Error("failed to close geo databases", logger.Error(err))
		}
	}()

	store, err := openBackend(ctx, app.StorageDriver, log)
	if err != nil {
		return err
	}
	defer store.close(context.WithoutCancel(ctx))

	devices, cache, cacheChecks, closeCache, err := withDeviceCache(ctx, store.devices, log)
	if err != nil {
		return err
	}
	defer closeCache()

	deviceResolver := device.NewResolver(devices, device.WithLogger(log))
	ipManager := iplog.NewManager(store.ipLogs, geoResolver, iplog.WithLogger(log))
	var svcOpts []tracker.ServiceOption
	if cache != nil {
		svcOpts = append(svcOpts, tracker.WithDeviceEvicter(cache))
	}
	svc := tracker.NewService(deviceResolver, ipManager, log, svcOpts...)

	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		return err
	}

	trackOpts := []tracker.MiddlewareOption{tracker.WithSkipPaths("/health")}
	if app.TrackingFailClosed {
		trackOpts = append(trackOpts, tracker.WithFailClosed())
	}

	// no middleware.RealIP: IP history stores the transport peer address
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	r.Use(tracker.Middleware(svc, trackOpts...))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httpserver.JSON(w, http.StatusOK, map[string]string{"message": "Hello World"})
	})
	r.Get("/device", deviceHandler(ipManager))
	r.Get("/health", httpserver.HealthCheckHandler(log, httpCfg.HealthTimeout, append(store.checks, cacheChecks...)...))

	srv := httpserver.New(httpCfg, r, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	return g.Wait()
}

func openBackend(ctx context.Context, driver string, log *slog.Logger) (*backend, error) {
	switch driver {
	case driverMemory, "":
		log.WarnContext(ctx, "using in-memory storage, data is lost on restart")
		return &backend{
			devices: device.NewMemoryStore(),
			ipLogs:  iplog.NewMemoryStore(),
			close:   func(context.Context) {},
		}, nil

	case driverPostgres:
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx, pool, pgstore.Migrations, cfg, log); err != nil {
			pool.Close()
			return nil, err
		}
		return postgresBackend(pool), nil

	case driverMongo:
		var cfg mongodb.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := mongodb.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.Database)
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.WithoutCancel(ctx))
			return nil, err
		}
		return mongoBackend(client, db, log), nil
	}
	return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", driver)
}

func postgresBackend(pool *pgxpool.Pool) *backend {
	return &backend{
		devices: pgstore.NewDevices(pool),
		ipLogs:  pgstore.NewIPLogs(pool),
		checks:  []httpserver.Check{{Name: "postgres", Fn: pg.Healthcheck(pool)}},
		close:   func(context.Context) { pool.Close() },
	}
}

func mongoBackend(client *mongo.Client, db *mongo.Database, log *slog.Logger) *backend {
	return &backend{
		devices: mongostore.NewDevices(db),
		ipLogs:  mongostore.NewIPLogs(db),
		checks:  []httpserver.Check{{Name: "mongo", Fn: mongodb.Healthcheck(client)}},
		close: func(ctx context.Context) {
			if err := client.Disconnect(ctx); err != nil {
				log.ErrorContext(ctx, "failed to disconnect mongo", logger.Error(err))
			}
		},
	}
}

// withDeviceCache wraps devices with the Redis cache when DEVICE_CACHE_ENABLED
// is set. The returned cache is nil when caching is off.
func withDeviceCache(ctx context.Context, devices device.Store, log *slog.Logger) (device.Store, *devicecache.Store, []httpserver.Check, func(), error) {
	var cacheCfg devicecache.Config
	if err := config.Load(&cacheCfg); err != nil {
		return nil, nil, nil, nil, err
	}
	if !cacheCfg.Enabled {
		return devices, nil, nil, func() {}, nil
	}

	var redisCfg redis.Config
	if err := config.Load(&redisCfg); err != nil {
		return nil, nil, nil, nil, err
	}
	client, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			log.Error("failed to close redis client", logger.Error(err))
		}
	}
	checks := []httpserver.Check{{Name: "redis", Fn: redis.Healthcheck(client)}}
	cache := devicecache.New(devices, client, cacheCfg, log)
	return cache, cache, checks, closeFn, nil
}

type deviceResponse struct {
	Device   any          `json:"device"`
	ActiveIP *iplog.IPLog `json:"active_ip,omitempty"`
}

func deviceHandler(ips *iplog.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := tracker.GetResultFromContext(r.Context())
		if !ok || res.Device == nil {
			if info, ok := tracker.GetInfoFromContext(r.Context()); ok {
				httpserver.JSON(w, http.StatusOK, deviceResponse{Device: info})
				return
			}
			httpserver.Error(w, http.StatusServiceUnavailable, "device tracking unavailable")
			return
		}

		resp := deviceResponse{Device: res.Device, ActiveIP: res.IPLog}
		if resp.ActiveIP == nil {
			active, err := ips.Active(r.Context(), res.Device.ID)
			switch {
			case err == nil:
				resp.ActiveIP = active
			case !errors.Is(err, iplog.ErrNotFound):
				slog.WarnContext(r.Context(), "failed to load active ip", logger.Error(err))
			}
		}
		httpserver.JSON(w, http.StatusOK, resp)
	}
}

func requestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id := middleware.GetReqID(ctx); id != "" {
		return slog.String("request_id", id), true
	}
	return slog.Attr{}, false
}

func deviceIDExtractor(ctx context.Context) (slog.Attr, bool) {
	res, ok := tracker.GetResultFromContext(ctx)
	if !ok || res.Device == nil {
		return slog.Attr{}, false
	}
	return logger.DeviceID(res.Device.ID), true
}

func clientIPExtractor(ctx context.Context) (slog.Attr, bool) {
	ip := clientip.GetIPFromContext(ctx)
	if ip == "" {
		return slog.Attr{}, false
	}
	return logger.ClientIP(ip), true
}
