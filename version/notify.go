package version

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/vidscout/vidscout/color"
	"github.com/vidscout/vidscout/constant"
	"github.com/vidscout/vidscout/icon"
	"github.com/vidscout/vidscout/key"
	"github.com/vidscout/vidscout/style"
	"github.com/vidscout/vidscout/util"
)

// Notify prints a notice when a newer release exists. Failures stay silent.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s checking for updates...", icon.Get(icon.Progress)))
	latest, err := Latest()
	erase()
	if err != nil {
		return
	}

	if newer, err := Compare(latest, constant.Version); err != nil || newer <= 0 {
		return
	}

	fmt.Printf("\n%s %s %s is out %s\n%s\n\n",
		style.Fg(color.Green)("▇▇▇"),
		constant.Vidscout,
		style.Bold(latest),
		style.Faint("(you have "+constant.Version+")"),
		style.Faint("https://github.com/vidscout/vidscout/releases/tag/v"+latest),
	)
}
