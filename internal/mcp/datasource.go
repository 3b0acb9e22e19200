package mcp

import (
	"context"
	"time"

	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/models"
	"github.com/Swastricare/swastricare-mobile-swift-sub008/internal/storage"
	"github.com/google/uuid"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	QueryActivities(ctx context.Context, start, end time.Time, userID int, source, activityType string) ([]models.Activity, error)
	GetActivity(ctx context.Context, id uuid.UUID, userID int) (*models.Activity, error)
	QueryDailyTotals(ctx context.Context, userID int, start, end time.Time) ([]models.DailyTotals, error)
	GetDailyTotals(ctx context.Context, userID int, day time.Time) (models.DailyTotals, error)
	GetGoal(ctx context.Context, userID int) (models.ActivityGoal, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
