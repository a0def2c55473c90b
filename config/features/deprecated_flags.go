package features

import "github.com/urfave/cli/v2"

// Deprecated flags list.
const deprecatedUsage = "DEPRECATED. DO NOT USE."

var (
	deprecatedEnableActiveBalanceCache = &cli.BoolFlag{
		Name:   "enable-active-balance-cache",
		Usage:  deprecatedUsage,
		Hidden: true,
	}
	deprecatedEnableNextSlotStateCache = &cli.BoolFlag{
		Name:   "enable-next-slot-state-cache",
		Usage:  deprecatedUsage,
		Hidden: true,
	}
)

// deprecatedFlags is a list of flags that are kept registered so old invocations keep working but warn.
var deprecatedFlags = []cli.Flag{
	deprecatedEnableActiveBalanceCache,
	deprecatedEnableNextSlotStateCache,
}
