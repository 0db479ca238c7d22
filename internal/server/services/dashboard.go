package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/cahierdeveille/internal/server/auth"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cahierdeveille/internal/timex"
)

const (
	dashboardRecent = 5
	activityWindow  = 30 * 24 * time.Hour
)

type DashboardService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	profiles    *ProfileService
	now         func() time.Time
}

func NewDashboardService(db *sql.DB, m repomanager.RepositoryManager, profiles *ProfileService) *DashboardService {
	return &DashboardService{db: db, repomanager: m, profiles: profiles, now: time.Now}
}

// Get aggregates the non-archived cahiers of the session user. Days in
// ActivityByDay are Brussels calendar dates.
func (s *DashboardService) Get(ctx context.Context, sess auth.Session) (*models.Dashboard, error) {
	repo := s.repomanager.Cahiers(s.db)

	total, err := repo.CountActive(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	recent, err := repo.Recent(ctx, sess.UserID, dashboardRecent)
	if err != nil {
		return nil, err
	}
	activity, err := repo.CreatedSince(ctx, sess.UserID, s.now().UTC().Add(-activityWindow))
	if err != nil {
		return nil, err
	}
	name, err := s.profiles.RedacteurName(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int, len(activity))
	for _, c := range activity {
		byDay[c.CreatedAt.In(timex.Zone).Format("2006-01-02")]++
	}

	return &models.Dashboard{
		TotalCahiers:  total,
		RecentCahiers: recent,
		Activity:      activity,
		ActivityByDay: byDay,
		RedacteurName: name,
	}, nil
}
