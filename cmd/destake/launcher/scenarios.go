package launcher

import (
	"strconv"

	"github.com/pterm/pterm"
	"gopkg.in/urfave/cli.v1"

	"github.com/destake/go-destake/integration"
)

var scenariosCommand = cli.Command{
	Name:   "scenarios",
	Usage:  "List the built-in simulation scenarios",
	Action: listScenarios,
}

func listScenarios(ctx *cli.Context) error {
	data := pterm.TableData{
		{"Name", "Algorithm", "Epochs", "Peers", "Description"},
	}
	for _, s := range integration.All() {
		data = append(data, []string{
			s.Name,
			s.Params.Algo.String(),
			strconv.FormatUint(uint64(s.Params.Epochs), 10),
			strconv.Itoa(s.Params.Peers),
			s.Description,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
