package services

import (
	"io"
	"math"
	"time"

	"suba-radar/models"
	"suba-radar/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLoggerTo(io.Discard) }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func sampleTable() []*models.Snapshot {
	return []*models.Snapshot{
		{Date: day("2024-01-01"), Account: "ana", FollowersMax: 1000, FollowersGrowth: 0.05, EngagementRate: 0.10, Categories: "Moda, Lifestyle", Verified: true, Cluster: "Micro"},
		{Date: day("2024-01-01"), Account: "bia", FollowersMax: 50000, FollowersGrowth: 0.01, EngagementRate: 0.02, Categories: "Viagem", IsBrand: true, Cluster: "Macro"},
		{Date: day("2024-01-08"), Account: "ana", FollowersMax: 1200, FollowersGrowth: 0.20, EngagementRate: 0.08, Categories: "Moda, Lifestyle", Verified: true, Cluster: "Micro"},
		{Date: day("2024-01-08"), Account: "caio", FollowersMax: 300, FollowersGrowth: -0.02, EngagementRate: 0.30, Categories: "", Cluster: "Nano"},
		{Date: day("2024-01-15"), Account: "bia", FollowersMax: 52000, FollowersGrowth: 0.04, EngagementRate: 0.03, Categories: "Viagem, Gastronomia", IsBrand: true, Cluster: "Macro"},
		{Date: day("2024-01-15"), Account: "duda", FollowersMax: 8000, FollowersGrowth: 0.00, EngagementRate: 0.05, Categories: "Fitness", Cluster: "Micro"},
	}
}
