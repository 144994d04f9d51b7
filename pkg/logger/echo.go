package logger

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

const callerKey = "logger.caller"

type caller struct {
	userID string
	role   string
}

// quietPaths are polled by orchestrators and scrapers. Successful hits log at
// debug so they do not drown real traffic.
var quietPaths = map[string]bool{
	"/health":       true,
	"/health/ready": true,
	"/metrics":      true,
}

// SetCaller records the authenticated caller so the request entry written by
// EchoMiddleware carries user_id and role.
func SetCaller(c echo.Context, userID, role string) {
	c.Set(callerKey, caller{userID: userID, role: role})
}

// EchoMiddleware logs one entry per request. Server errors log at error
// level, client errors at warn, everything else at info.
func EchoMiddleware(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			var ev *zerolog.Event
			switch {
			case v.Status >= 500:
				ev = log.Error()
			case v.Status >= 400:
				ev = log.Warn()
			case quietPaths[c.Path()]:
				ev = log.Debug()
			default:
				ev = log.Info()
			}
			if v.Error != nil {
				ev = ev.Err(v.Error)
			}
			if who, ok := c.Get(callerKey).(caller); ok {
				ev = ev.Str(FieldUserID, who.userID).Str(FieldRole, who.role)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str(FieldRequestID, v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
