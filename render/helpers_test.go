package render

import (
	"io"
	"time"

	"suba-radar/models"
	"suba-radar/services"
	"suba-radar/utils"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleView(c models.Criteria) *models.DashboardView {
	table := []*models.Snapshot{
		{Date: day("2024-01-01"), Account: "ana", FollowersMax: 1000, FollowersGrowth: 0.05, EngagementRate: 0.10, Categories: "Moda, Lifestyle", Verified: true, Cluster: "Micro"},
		{Date: day("2024-01-01"), Account: "bia", FollowersMax: 50000, FollowersGrowth: 0.01, EngagementRate: 0.02, Categories: "Viagem", IsBrand: true, Cluster: "Macro"},
		{Date: day("2024-01-08"), Account: "caio", FollowersMax: 300, FollowersGrowth: -0.02, EngagementRate: 0.30, Cluster: "Nano"},
	}
	d := services.NewDashboard(utils.NewLoggerTo(io.Discard), services.NewFormatter("."))
	return d.Recompute(table, c)
}

func emptyView() *models.DashboardView {
	return sampleView(models.Criteria{Accounts: []string{"nobody"}})
}
