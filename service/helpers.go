package service

import (
	"fmt"
	"time"
)

// background launches a background goroutine and recovers from panics inside
// the goroutine. It accepts an arbitrary function as a parameter and executes
// the function parameter inside the goroutine.
func (s *service) background(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if err := recover(); err != nil {
				s.logger.PrintError(fmt.Errorf("%s", err), nil)
			}
		}()
		fn()
	}()
}

// sendMail sends an e-mail in the background when a mailer is configured.
func (s *service) sendMail(recipient, templateFile string, data any) {
	if s.mailer == nil {
		return
	}
	s.background(func() {
		err := s.mailer.Send(recipient, templateFile, data)
		if err != nil {
			s.logger.PrintError(err, map[string]string{"template": templateFile})
		}
	})
}

// parseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
