package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"roamify/internal/app"
	"roamify/internal/ratings"
	"roamify/internal/recommend"
	"roamify/internal/web"
)

func newRecommendCmd(opts *rootOptions) *cobra.Command {
	var (
		region string
		count  int
		user   string
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Show the top attractions of a region for a user",
		Example: `  roamify recommend --region Paris --count 5 --user alice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app.App) error {
				res, err := a.Service.Recommend(cmd.Context(), region, count, user)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(res.Recommendations) == 0 {
					fmt.Fprintln(out, res.Message)
					return nil
				}
				fmt.Fprintln(out, recommend.Heading(count, region, user))
				for _, rec := range res.Recommendations {
					fmt.Fprintf(out, "\nAttraction name: %s\n", rec.Name)
					fmt.Fprintf(out, "City: %s\n", rec.City)
					fmt.Fprintf(out, "Opening Hours: %s\n", rec.OpeningHours)
					fmt.Fprintf(out, "Description: %s\n", rec.Description)
				}
				if res.Message != "" {
					fmt.Fprintf(out, "\n%s\n", res.Message)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&region, "region", "r", "", "region (catalog State)")
	cmd.Flags().IntVarP(&count, "count", "n", 5, "number of attractions (1-20)")
	cmd.Flags().StringVarP(&user, "user", "u", "", "user name")
	_ = cmd.MarkFlagRequired("region")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// parseRatingFlag splits "Name=4.5". The name may contain '=' itself; the
// value is taken after the last one.
func parseRatingFlag(s string) (string, float64, error) {
	i := strings.LastIndex(s, "=")
	if i <= 0 {
		return "", 0, fmt.Errorf("rating %q must look like NAME=VALUE", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s[i+1:]), 64)
	if err != nil {
		return "", 0, fmt.Errorf("rating %q: %w", s, err)
	}
	return strings.TrimSpace(s[:i]), v, nil
}

func newRateCmd(opts *rootOptions) *cobra.Command {
	var (
		user   string
		values []string
	)
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Submit ratings for a user",
		Example: `  roamify rate --user alice --rating "Eiffel Tower=4.5" --rating "Louvre=3"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sub := make(ratings.Submission, len(values))
			for _, v := range values {
				name, rating, err := parseRatingFlag(v)
				if err != nil {
					return err
				}
				sub[name] = rating
			}
			return opts.withApp(cmd, func(a *app.App) error {
				if _, err := a.Service.Submit(cmd.Context(), user, sub); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), web.SubmittedMessage)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "user name")
	cmd.Flags().StringArrayVar(&values, "rating", nil, "NAME=VALUE rating, repeatable")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the catalog joined with a user's ratings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app.App) error {
				rows, found, err := a.Service.UserView(cmd.Context(), user)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !found {
					fmt.Fprintln(out, recommend.NotFoundMessage(user))
					return nil
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tGOOGLE RATING\tUSER RATING\tSTATE\tCITY\tCOUNTRY")
				for _, r := range rows {
					fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%s\t%s\t%s\n", r.Name, r.GoogleRating, r.UserRating, r.State, r.City, r.Country)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "user name")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newRegionsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List the regions of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app.App) error {
				regions, err := a.Service.Regions(cmd.Context())
				if err != nil {
					return err
				}
				for _, r := range regions {
					fmt.Fprintln(cmd.OutOrStdout(), r)
				}
				return nil
			})
		},
	}
}

func newLookupCmd(opts *rootOptions) *cobra.Command {
	var user, attraction string
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Print one user's rating of one attraction",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app.App) error {
				v, err := a.Service.LookupRating(cmd.Context(), user, attraction)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(v, 'f', -1, 64))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "user name")
	cmd.Flags().StringVarP(&attraction, "attraction", "a", "", "attraction name")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("attraction")
	return cmd
}
