package database

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/rickgao/bittrex-client/internal/config"
	"github.com/rickgao/bittrex-client/internal/version"
)

// BuildConnString builds a PostgreSQL connection URL from config. The
// application_name lets DBAs attribute sessions to the recorder.
func BuildConnString(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = config.DefaultDBSSLMode
	}

	q := url.Values{}
	q.Set("sslmode", sslMode)
	q.Set("application_name", version.Product)

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Describe returns the connection target without credentials, for logs.
func Describe(cfg config.DBConfig) string {
	return fmt.Sprintf("%s@%s/%s", cfg.User, net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)), cfg.Name)
}
