// Package mail delivers recovery codes to users, either over SMTP or to the
// application log for local development.
package mail

import (
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
)

const recoverySubject = "Password recovery"

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	recoveryHTML = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/recovery.html.tmpl"))
	recoveryText = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/recovery.txt.tmpl"))
)

type recoveryData struct {
	AppName   string
	Code      string
	ExpiresIn string
	Year      int
}

func newRecoveryData(appName, code string, ttl time.Duration, now time.Time) recoveryData {
	return recoveryData{
		AppName:   appName,
		Code:      code,
		ExpiresIn: humanizeTTL(ttl),
		Year:      now.Year(),
	}
}

// humanizeTTL renders ttl for the email body. Zero means the code never expires.
func humanizeTTL(ttl time.Duration) string {
	switch {
	case ttl <= 0:
		return ""
	case ttl%time.Hour == 0:
		return plural(int(ttl/time.Hour), "hour")
	case ttl >= time.Minute:
		return plural(int(ttl.Round(time.Minute)/time.Minute), "minute")
	default:
		return plural(int(ttl.Round(time.Second)/time.Second), "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
