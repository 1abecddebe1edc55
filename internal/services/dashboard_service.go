package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"rental-backend/internal/duedate"
	"rental-backend/internal/logger"
	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
)

type DashboardService struct {
	Products ProductStore
	Rentals  RentalStore
	Cache    StatsCache // optional
	Now      func() time.Time

	log zerolog.Logger
}

func NewDashboardService(products ProductStore, rentals RentalStore) *DashboardService {
	return &DashboardService{
		Products: products,
		Rentals:  rentals,
		Now:      timeutil.Now,
		log:      logger.Component("dashboard"),
	}
}

// GetStats summarises the catalog and the rentals due around today
func (s *DashboardService) GetStats(ctx context.Context) (*models.DashboardStats, error) {
	now := s.Now()
	w := duedate.WindowsAt(now)
	day := timeutil.FormatDate(w.Today)

	if s.Cache != nil {
		if data, ok := s.Cache.Get(ctx, day); ok {
			var stats models.DashboardStats
			if err := json.Unmarshal(data, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats := &models.DashboardStats{}
	var err error
	if stats.TotalProducts, err = s.Products.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveRentals, err = s.Rentals.CountEndingFrom(ctx, w.Today); err != nil {
		return nil, err
	}
	if stats.OverdueCount, err = s.Rentals.CountEndingBefore(ctx, w.Today); err != nil {
		return nil, err
	}
	if stats.DueToday, err = s.Rentals.ListEndingBetween(ctx, w.Today, w.Tomorrow); err != nil {
		return nil, err
	}
	if stats.DueTomorrow, err = s.Rentals.ListEndingBetween(ctx, w.Tomorrow, w.DayAfter); err != nil {
		return nil, err
	}
	for _, r := range stats.DueToday {
		r.Annotate(w, now)
	}
	for _, r := range stats.DueTomorrow {
		r.Annotate(w, now)
	}

	if s.Cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			s.Cache.Set(ctx, day, data)
		} else {
			s.log.Warn().Err(err).Msg("encode stats for cache")
		}
	}
	return stats, nil
}
