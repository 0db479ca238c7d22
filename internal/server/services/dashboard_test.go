package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sess := env.register(t, "a@police.belgium.eu")
	other := env.register(t, "b@police.belgium.eu")

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	// created 40 days ago, then one per day for the last 6 days
	days := []int{40, 5, 4, 3, 2, 1, 0}
	var ids []int64
	for _, d := range days {
		env.cahiers.now = func() time.Time { return now.AddDate(0, 0, -d) }
		in := incidentA()
		in.Event.Evenement = fmt.Sprintf("J-%d", d)
		saved, err := env.cahiers.Save(ctx, sess, in)
		require.NoError(t, err)
		ids = append(ids, saved.Cahier.ID)
	}
	_, err := env.cahiers.Save(ctx, other, incidentA())
	require.NoError(t, err)

	require.NoError(t, env.cahiers.Archive(ctx, sess, ids[len(ids)-1]))

	env.dashboard.now = func() time.Time { return now }
	d, err := env.dashboard.Get(ctx, sess)
	require.NoError(t, err)

	assert.Equal(t, 6, d.TotalCahiers)
	assert.Equal(t, "J. Dupont", d.RedacteurName)

	require.Len(t, d.RecentCahiers, 5)
	assert.Equal(t, "J-1", d.RecentCahiers[0].Evenement)
	assert.Equal(t, "J-5", d.RecentCahiers[4].Evenement)

	require.Len(t, d.Activity, 5)
	assert.Equal(t, "J-5", d.Activity[0].Evenement)
	assert.Equal(t, "J-1", d.Activity[4].Evenement)

	assert.Len(t, d.ActivityByDay, 5)
	assert.Equal(t, 1, d.ActivityByDay["2026-10-18"])
	assert.Equal(t, 1, d.ActivityByDay["2026-10-14"])
}

func TestDashboard_Empty(t *testing.T) {
	env := newTestEnv(t)
	sess := env.register(t, "a@police.belgium.eu")

	d, err := env.dashboard.Get(context.Background(), sess)
	require.NoError(t, err)
	assert.Zero(t, d.TotalCahiers)
	assert.Empty(t, d.RecentCahiers)
	assert.NotNil(t, d.ActivityByDay)
}
