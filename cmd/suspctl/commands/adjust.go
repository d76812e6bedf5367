package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moto-tune/suspension-backend/internal/suspension/adjustment"
	susp "github.com/moto-tune/suspension-backend/internal/suspension/domain"
)

func adjustCmd() *cobra.Command {
	var (
		current, target map[string]int
		ranges          rangeFlags
	)
	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Print the clicks needed to go from current to target settings",
		Example: `  suspctl adjust --current fork_compression=15,shock_rebound=8 --target fork_compression=5
  suspctl adjust --target shock_compression_high=3 --max-shock-high 6`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := ranges.ranges()
			from, err := settingsFrom(current, r.Defaults(), r)
			if err != nil {
				return fmt.Errorf("--current: %w", err)
			}
			to, err := settingsFrom(target, from, r)
			if err != nil {
				return fmt.Errorf("--target: %w", err)
			}
			steps := adjustment.Plan(from, to, r)

			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, steps)
			}
			if len(steps) == 0 {
				fmt.Fprintln(out, "nothing to adjust")
				return nil
			}
			for _, s := range steps {
				fmt.Fprintf(out, "%-24s %2d -> %2d  %s %d click(s) (%s)  %d%% -> %d%%\n",
					label(s.Field), s.From, s.To, s.Label.English, s.Clicks, s.Direction, s.FromPercentage, s.ToPercentage)
			}
			return nil
		},
	}
	cmd.Flags().StringToIntVar(&current, "current", nil, "current values as field=clicks (missing fields use defaults within the ranges)")
	cmd.Flags().StringToIntVar(&target, "target", nil, "target values as field=clicks (missing fields stay put)")
	ranges.bind(cmd)
	return cmd
}

// settingsFrom overlays values onto base, rejecting unknown fields and values
// outside r.
func settingsFrom(values map[string]int, base susp.Settings, r susp.Ranges) (susp.Settings, error) {
	known := make(map[string]susp.Field, len(susp.Fields))
	for _, f := range susp.Fields {
		known[string(f)] = f
	}
	out := base
	for name, v := range values {
		f, ok := known[name]
		if !ok {
			return susp.Settings{}, fmt.Errorf("unknown field %q", name)
		}
		if err := checkRange(name, v, r.Max(f)); err != nil {
			return susp.Settings{}, err
		}
		out = out.With(f, v)
	}
	return out, nil
}
