package features

import (
	"github.com/urfave/cli/v2"
)

var (
	skipBLSVerifyFlag = &cli.BoolFlag{
		Name:  "skip-bls-verify",
		Usage: "Whether or not to skip BLS verification of signature at runtime, this is unsafe and should only be used for development",
	}
	enableLenientFFGSourceFlag = &cli.BoolFlag{
		Name: "enable-lenient-ffg-source",
		Usage: "Accept attestations whose source checkpoint epoch sits within two epochs of the " +
			"justified checkpoint instead of requiring an exact match.",
	}
	disableCommitteeCacheFlag = &cli.BoolFlag{
		Name:  "disable-committee-cache",
		Usage: "Recompute committee assignments on every request instead of consulting the committee cache",
	}
	enableVectorizedHTR = &cli.BoolFlag{
		Name:  "enable-vectorized-htr",
		Usage: "Enables new go sha256 library which utilizes optimized routines for merkle trie computation",
	}
	writeRewardLedgerFlag = &cli.BoolFlag{
		Name:  "write-reward-ledger",
		Usage: "Log every reward credit applied by the incentives engine at debug level",
	}
)

// BeaconChainFlags contains a list of all the feature flags that apply to the beacon-chain client.
var BeaconChainFlags = append(deprecatedFlags, []cli.Flag{
	skipBLSVerifyFlag,
	enableLenientFFGSourceFlag,
	disableCommitteeCacheFlag,
	enableVectorizedHTR,
	writeRewardLedgerFlag,
}...)
