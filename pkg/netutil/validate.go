package netutil

import (
	"net/url"

	"github.com/pkg/errors"
	"golang.org/x/net/idna"
)

const (
	maxDomainNameSize = 253
)

// ValidateDomainName validates the string value as a domain name
func ValidateDomainName(value string) error {
	if len(value) == 0 {
		return errors.New("domain name is empty")
	}
	if len(value) > maxDomainNameSize {
		return errors.New("domain name length exceeds limit")
	}
	if _, err := idna.Registration.ToASCII(value); err != nil {
		return errors.Wrap(err, "domain name is invalid")
	}
	return nil
}

// ValidateHttpUrl validates an upstream endpoint URL. Only http and https are
// accepted, and plain http is rejected when requireSecureConnection is set.
func ValidateHttpUrl(value string, requireSecureConnection bool) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return err
	}

	switch parsed.Scheme {
	case "https":
	case "http":
		if requireSecureConnection {
			return errors.New("url scheme must be https")
		}
	default:
		return errors.New("url scheme must be http or https")
	}

	host := parsed.Hostname()
	if len(host) == 0 {
		return errors.New("host component missing")
	}
	return errors.Wrap(ValidateDomainName(host), "host is not a valid domain name")
}
