// Command rank prints how long every research team needs for a technology,
// fastest first.
//
//	rank --data teams.json --tech 5010 --date 1938.1.1 --lifetime
//	rank --scenario dh-nuclear --tech atomic-research --breakdown
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/warp/research-engine/api"
	"github.com/warp/research-engine/factory"
	"github.com/warp/research-engine/gamedate"
	"github.com/warp/research-engine/research"
)

type options struct {
	dataFile  string
	scenario  string
	tech      string
	game      string
	date      string
	lifetime  *bool
	blueprint *bool
	breakdown bool
}

func main() {
	var opts options
	var lifetime, blueprint bool

	rootCmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank research teams by completion time",
		Long: `Loads technologies, teams and a ruleset from a JSON dataset (or a
built-in scenario) and ranks every team on one technology.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("lifetime") {
				opts.lifetime = &lifetime
			}
			if cmd.Flags().Changed("blueprint") {
				opts.blueprint = &blueprint
			}
			return run(cmd.OutOrStdout(), opts)
		},
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVarP(&opts.dataFile, "data", "d", "", "Path to JSON dataset")
	rootCmd.Flags().StringVarP(&opts.scenario, "scenario", "s", "", "Built-in scenario instead of a dataset")
	rootCmd.Flags().StringVarP(&opts.tech, "tech", "t", "", "Technology ID or name (lists technologies when empty)")
	rootCmd.Flags().StringVarP(&opts.game, "game", "g", "", "Use this game's preset (hoi2, aod, dh)")
	rootCmd.Flags().StringVar(&opts.date, "date", "", "Start research on this date (e.g. 1938.1.1)")
	rootCmd.Flags().BoolVarP(&lifetime, "lifetime", "l", false, "Skip organizations that no longer exist")
	rootCmd.Flags().BoolVarP(&blueprint, "blueprint", "b", false, "Apply the blueprint bonus")
	rootCmd.Flags().BoolVar(&opts.breakdown, "breakdown", false, "Show the component breakdown of the fastest team")

	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(out io.Writer, opts options) error {
	ds, err := loadDataset(opts)
	if err != nil {
		return err
	}
	rules, err := applyOverrides(ds.Rules, opts)
	if err != nil {
		return err
	}

	if opts.tech == "" {
		printTechs(out, ds.Techs)
		return nil
	}
	tech := ds.Tech(opts.tech)
	if tech == nil {
		return fmt.Errorf("technology %q not found in dataset", opts.tech)
	}

	rankings := research.NewResearches(rules)
	if err := rankings.UpdateList(tech, ds.Teams); err != nil {
		return err
	}

	printHeader(out, tech, rules)
	items := rankings.Items()
	if len(items) == 0 {
		color.New(color.FgYellow).Fprintln(out, "No team can research this technology.")
		return nil
	}
	printRanking(out, items)
	if opts.breakdown {
		printBreakdown(out, items[0])
	}
	return nil
}

func loadDataset(opts options) (*factory.Dataset, error) {
	f := factory.NewFactory()
	switch {
	case opts.dataFile != "" && opts.scenario != "":
		return nil, errors.New("use either --data or --scenario")
	case opts.dataFile != "":
		return f.LoadDataset(opts.dataFile)
	case opts.scenario != "":
		data, ok := api.ScenarioDataset(opts.scenario)
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q", opts.scenario)
		}
		return f.ParseDataset([]byte(data))
	default:
		return nil, errors.New("--data or --scenario is required")
	}
}

func applyOverrides(rules research.Ruleset, opts options) (research.Ruleset, error) {
	if opts.game != "" {
		game, err := research.ParseGameType(opts.game)
		if err != nil {
			return rules, err
		}
		if game != rules.Game {
			if rules, err = research.Preset(game); err != nil {
				return rules, err
			}
		}
	}
	if opts.date != "" {
		d, err := gamedate.Parse(opts.date)
		if err != nil {
			return rules, err
		}
		rules.DateMode = research.DateSpecified
		rules.SpecifiedDate = d
	}
	if opts.lifetime != nil {
		rules.ConsiderLifetime = *opts.lifetime
	}
	if opts.blueprint != nil {
		rules.Blueprint = *opts.blueprint
	}
	return rules, nil
}

// =============================================================================
// OUTPUT
// =============================================================================

func printTechs(out io.Writer, techs []*research.TechItem) {
	color.New(color.FgCyan, color.Bold).Fprintln(out, "Technologies:")
	table := tablewriter.NewTable(out,
		tablewriter.WithHeader([]string{"ID", "Name", "Year", "Components"}),
	)
	for _, t := range techs {
		table.Append([]string{t.ID, t.Name, fmt.Sprintf("%d", t.Year), fmt.Sprintf("%d", len(t.Components))})
	}
	table.Render()
}

func printHeader(out io.Writer, tech *research.TechItem, rules research.Ruleset) {
	title := color.New(color.FgCyan, color.Bold)
	title.Fprintf(out, "\n%s (%d)\n", tech, tech.Year)

	fmt.Fprintf(out, "   Game: %s   Start: %s", rules.Game, rules.StartDate(tech))
	if rules.Blueprint {
		fmt.Fprint(out, "   Blueprint")
	}
	if rules.ConsiderLifetime {
		fmt.Fprint(out, "   Lifetime filter")
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out)
}

func printRanking(out io.Writer, items []*research.Research) {
	best := color.New(color.FgGreen, color.Bold)

	table := tablewriter.NewTable(out,
		tablewriter.WithHeader([]string{"#", "Team", "Country", "Skill", "Days", "Finished"}),
	)
	for i, r := range items {
		name := r.Team.String()
		if i == 0 {
			name = best.Sprint(name)
		}
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			name,
			r.Team.Country,
			fmt.Sprintf("%d", r.Team.Skill),
			fmt.Sprintf("%d", r.Days),
			r.EndDate.String(),
		})
	}
	table.Render()
}

func printBreakdown(out io.Writer, r *research.Research) {
	color.New(color.FgCyan).Fprintf(out, "\nBreakdown for %s:\n", r.Team)

	table := tablewriter.NewTable(out,
		tablewriter.WithHeader([]string{"Component", "Speciality", "Progress/day", "Offset", "Days"}),
	)
	for _, c := range r.Components {
		table.Append([]string{
			c.Component.Name,
			string(c.Component.Speciality),
			fmt.Sprintf("%.2f", c.Progress),
			fmt.Sprintf("%+d", c.StartOffset),
			fmt.Sprintf("%d", c.Days),
		})
	}
	table.Render()
}
