package models

// Spreadsheet headers of the source table.
const (
	ColDate       = "Data"
	ColAccount    = "Account username"
	ColFollowers  = "Followers max"
	ColGrowth     = "Followers Growth"
	ColEngagement = "Engagement rate (ER)"
	ColCategories = "Categories"
	ColVerified   = "Verified account"
	ColIsBrand    = "Is brand"
	ColCluster    = "Cluster"
)

// RequiredColumns lists every header a source must provide.
var RequiredColumns = []string{
	ColDate,
	ColAccount,
	ColFollowers,
	ColGrowth,
	ColEngagement,
	ColCategories,
	ColVerified,
	ColIsBrand,
	ColCluster,
}
