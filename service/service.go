package service

import (
	"context"
	"sync"
	"time"

	"github.com/emzola/athenaeum/config"
	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/internal/jsonlog"
	"github.com/emzola/athenaeum/internal/mailer"
	"github.com/emzola/athenaeum/repository"
	"github.com/emzola/athenaeum/storage"
)

type Service interface {
	books
	lookups
	readers
	loans
	transactions
	tokens
}

// Assets stores and removes book images.
type Assets interface {
	Upload(ctx context.Context, files []storage.File) (data.Images, error)
	Delete(ctx context.Context, images data.Images) error
}

// Mailer sends templated e-mail.
type Mailer interface {
	Send(recipient, templateFile string, data any) error
}

// service defines a service layer.
type service struct {
	config config.Config
	wg     *sync.WaitGroup
	logger *jsonlog.Logger
	repo   repository.Repository
	assets Assets
	mailer Mailer
	now    func() time.Time
}

// New creates a new instance of Service. E-mail is only sent when an SMTP
// host is configured.
func New(cfg config.Config, wg *sync.WaitGroup, logger *jsonlog.Logger, repo repository.Repository, assets Assets) *service {
	s := &service{
		config: cfg,
		wg:     wg,
		logger: logger,
		repo:   repo,
		assets: assets,
		now:    time.Now,
	}
	if cfg.SMTP.Host != "" {
		s.mailer = mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender)
	}
	return s
}

func (s *service) loanPeriod() time.Duration {
	return time.Duration(s.config.Loans.PeriodDays) * 24 * time.Hour
}
