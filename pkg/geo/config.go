package geo

import (
	"errors"
	"log/slog"

	"github.com/oschwald/maxminddb-golang"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/devicetrack/pkg/logger"
)

// Config holds database file locations. An empty path disables that database.
type Config struct {
	IP2LocationDBPath    string `env:"GEO_IP2LOCATION_DB_PATH"`
	MaxMindCityDBPath    string `env:"GEO_MAXMIND_CITY_DB_PATH"`
	MaxMindASNDBPath     string `env:"GEO_MAXMIND_ASN_DB_PATH"`
	MaxMindCountryDBPath string `env:"GEO_MAXMIND_COUNTRY_DB_PATH"`
}

// Open opens every configured database once and returns a resolver that owns
// them. Databases are opened concurrently; if any fails the others are closed.
// The caller must Close the resolver on shutdown.
func Open(cfg Config, log *slog.Logger, opts ...Option) (*Resolver, error) {
	if log == nil {
		log = slog.Default()
	}

	var (
		broad                *IP2Location
		city, asn, countryDB *maxminddb.Reader
	)

	var g errgroup.Group
	if cfg.IP2LocationDBPath != "" {
		g.Go(func() (err error) {
			broad, err = OpenIP2Location(cfg.IP2LocationDBPath)
			return err
		})
	}
	openMMDB := func(path string, dst **maxminddb.Reader) {
		if path == "" {
			return
		}
		g.Go(func() error {
			r, err := maxminddb.Open(path)
			if err != nil {
				return errors.Join(ErrFailedToOpenDatabase, err)
			}
			log.Info("geo database loaded",
				slog.String("type", r.Metadata.DatabaseType),
				slog.Uint64("build_epoch", uint64(r.Metadata.BuildEpoch)))
			*dst = r
			return nil
		})
	}
	openMMDB(cfg.MaxMindCityDBPath, &city)
	openMMDB(cfg.MaxMindASNDBPath, &asn)
	openMMDB(cfg.MaxMindCountryDBPath, &countryDB)

	err := g.Wait()

	var closers []Option
	var broadProvider, preciseProvider Provider
	if broad != nil {
		broadProvider = broad
		closers = append(closers, WithCloser(broad))
	}
	if city != nil || asn != nil || countryDB != nil {
		mm := NewMaxMind(asReader(city), asReader(asn), asReader(countryDB))
		preciseProvider = mm
		closers = append(closers, WithCloser(mm))
	}

	r := NewResolver(broadProvider, preciseProvider,
		append(append([]Option{WithLogger(log)}, opts...), closers...)...)

	if err != nil {
		return nil, errors.Join(err, r.Close())
	}

	if broadProvider == nil {
		r.logger.Warn("broad geo provider disabled", logger.Provider("ip2location"))
	}
	if preciseProvider == nil {
		r.logger.Warn("precise geo provider disabled", logger.Provider("maxmind"))
	}

	return r, nil
}

// asReader keeps a nil *maxminddb.Reader from becoming a non-nil interface.
func asReader(r *maxminddb.Reader) MMDBReader {
	if r == nil {
		return nil
	}
	return r
}
