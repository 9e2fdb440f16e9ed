package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var messages = map[string]string{
	"Config.Politicians":          "No politicians configured to track",
	"Config.Politicians[]":        "politicians must not contain blank entries",
	"Config.CheckIntervalMinutes": "check_interval_minutes must be at least 1",
	"Config.Email.Transport":      "email.transport must be smtp or mailgun",
	"Config.Email.To":             "EMAIL_TO not set",
	"Config.DataSource.Type":      "data_source.type not set",
	"Config.DataSource.URL":       "data_source.url is not a valid URL",
	"Config.SMTP.Username":        "SMTP_USERNAME not set",
	"Config.SMTP.Password":        "SMTP_PASSWORD not set",
	"Config.Mailgun.Domain":       "MAILGUN_DOMAIN not set",
	"Config.Mailgun.APIKey":       "MAILGUN_API_KEY not set",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateEmail, Config{})
	return v
}

// validateEmail enforces the credentials the selected transport needs.
func validateEmail(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if !cfg.Email.Enabled {
		return
	}

	switch cfg.Email.Transport {
	case TransportMailgun:
		if cfg.Mailgun.Domain == "" {
			sl.ReportError(cfg.Mailgun.Domain, "Mailgun.Domain", "Domain", "required_with_email", "")
		}
		if cfg.Mailgun.APIKey == "" {
			sl.ReportError(cfg.Mailgun.APIKey, "Mailgun.APIKey", "APIKey", "required_with_email", "")
		}
	default:
		if cfg.SMTP.Username == "" {
			sl.ReportError(cfg.SMTP.Username, "SMTP.Username", "Username", "required_with_email", "")
		}
		if cfg.SMTP.Password == "" {
			sl.ReportError(cfg.SMTP.Password, "SMTP.Password", "Password", "required_with_email", "")
		}
	}
	if len(cfg.Email.Recipients()) == 0 {
		sl.ReportError(cfg.Email.To, "Email.To", "To", "required_with_email", "")
	}
}

// Validate checks the configuration and returns every problem found.
func (c Config) Validate() []string {
	err := newValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	problems := make([]string, 0, len(verrs))
	seen := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[indexless(fe.Namespace())]
		if !ok {
			msg = fe.Error()
		}
		if !seen[msg] {
			seen[msg] = true
			problems = append(problems, msg)
		}
	}
	return problems
}

// indexless turns "Config.Politicians[2]" into "Config.Politicians[]".
func indexless(ns string) string {
	open := strings.IndexByte(ns, '[')
	if open < 0 || !strings.HasSuffix(ns, "]") {
		return ns
	}
	return ns[:open] + "[]"
}

// Err wraps the validation problems into a single error, or nil.
func (c Config) Err() error {
	problems := c.Validate()
	if len(problems) == 0 {
		return nil
	}
	return errors.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}
