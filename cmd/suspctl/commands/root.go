package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	susp "github.com/moto-tune/suspension-backend/internal/suspension/domain"
)

var jsonOutput bool

func Execute() error {
	return NewRoot().Execute()
}

// NewRoot builds the suspctl command tree.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "suspctl",
		Short:        "Offline suspension balance and adjustment calculator",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")
	root.AddCommand(balanceCmd(), adjustCmd())
	return root
}

// rangeFlags binds one --max-* flag per parameter.
type rangeFlags struct {
	forkComp, forkReb, shockLow, shockHigh, shockReb int
}

func (r *rangeFlags) bind(cmd *cobra.Command) {
	d := susp.DefaultRanges
	cmd.Flags().IntVar(&r.forkComp, "max-fork-comp", d.MaxForkCompression, "fork compression clicks available")
	cmd.Flags().IntVar(&r.forkReb, "max-fork-reb", d.MaxForkRebound, "fork rebound clicks available")
	cmd.Flags().IntVar(&r.shockLow, "max-shock-low", d.MaxShockCompressionLow, "shock low-speed compression clicks available")
	cmd.Flags().IntVar(&r.shockHigh, "max-shock-high", d.MaxShockCompressionHigh, "shock high-speed compression turns available")
	cmd.Flags().IntVar(&r.shockReb, "max-shock-reb", d.MaxShockRebound, "shock rebound clicks available")
}

func (r *rangeFlags) ranges() susp.Ranges {
	return susp.NewRanges(r.forkComp, r.forkReb, r.shockLow, r.shockHigh, r.shockReb)
}

func checkRange(name string, v, max int) error {
	if v < 0 || v > max {
		return fmt.Errorf("%s=%d outside [0, %d]", name, v, max)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func label(f susp.Field) string {
	return strings.ReplaceAll(string(f), "_", " ")
}
