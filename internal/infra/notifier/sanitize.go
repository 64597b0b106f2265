package notifier

import (
	"errors"
	"net/url"
	"regexp"
)

const mask = "****"

var (
	// secretParamPattern matches query parameters that carry credentials in vendor URLs.
	secretParamPattern = regexp.MustCompile(`((?:^|[?&])(?:pushkey|corpsecret|access_token|key|token)=)[^&\s"]*`)

	// hookPathPattern matches the key segment of Feishu-style webhook paths.
	hookPathPattern = regexp.MustCompile(`(/hook/)[^/?\s"]+`)
)

// RedactURL masks credentials carried in a vendor URL.
func RedactURL(raw string) string {
	raw = secretParamPattern.ReplaceAllString(raw, "${1}"+mask)
	return hookPathPattern.ReplaceAllString(raw, "${1}"+mask)
}

// SanitizeError returns err's message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return RedactURL(err.Error())
}

// redactURLError masks the URL that net/http embeds in transport errors.
// err is modified in place and returned.
func redactURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = RedactURL(ue.URL)
	}
	return err
}
