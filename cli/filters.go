package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"suba-radar/models"
	"suba-radar/services"
)

// filterFlags mirrors the dashboard's filter controls on the command line.
type filterFlags struct {
	start, end string
	accounts   []string
	categories []string
	verified   []string
	brand      []string
	clusters   []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.start, "start", "", "First date to include (YYYY-MM-DD)")
	fs.StringVar(&f.end, "end", "", "Last date to include (YYYY-MM-DD)")
	fs.StringSliceVar(&f.accounts, "account", nil, "Account usernames (repeatable)")
	fs.StringSliceVar(&f.categories, "category", nil, "Categories; "+models.EmptyCategory+" selects rows without any")
	fs.StringSliceVar(&f.verified, "verified", nil, "Verified flag values, e.g. true,false")
	fs.StringSliceVar(&f.brand, "brand", nil, "Is-brand flag values")
	fs.StringSliceVar(&f.clusters, "cluster", nil, "Clusters (repeatable)")
}

// criteria validates the flags the same way the HTTP API validates its query.
func (f *filterFlags) criteria(opts models.FilterOptions) (models.Criteria, error) {
	q := url.Values{}
	if f.start != "" {
		q.Set(services.ParamStart, f.start)
	}
	if f.end != "" {
		q.Set(services.ParamEnd, f.end)
	}
	q[services.ParamAccount] = f.accounts
	q[services.ParamCategory] = f.categories
	q[services.ParamVerified] = f.verified
	q[services.ParamBrand] = f.brand
	q[services.ParamCluster] = f.clusters
	return services.CriteriaFromQuery(q, opts)
}
