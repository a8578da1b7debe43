package model

import (
	"log/slog"
	"strconv"
)

// Credentials holds the SMTP settings used to mail a report.
type Credentials struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Addr returns host:port for dialing.
func (c Credentials) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// LogValue keeps the password out of log output.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("host", c.Host),
		slog.Int("port", c.Port),
		slog.String("username", c.Username),
		slog.String("from", c.From),
	)
}
