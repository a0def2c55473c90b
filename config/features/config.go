/*
Package features defines which features are enabled for runtime
in order to selectively enable certain features to maintain a stable runtime.

The process for implementing new features using this package is as follows:
	1. Add a new CMD flag in flags.go, and place it in the proper list(s) var for its client.
	2. Add a condition for the flag in the proper Configure function(s) below.
	3. Place any "new" behavior in the `if flagEnabled` statement.
	4. Place any "previous" behavior in the `else` statement.
	5. Ensure any tests using the new feature fail if the flag isn't enabled.
	5a. Use the following to enable your flag for tests:
	cfg := &features.Flags{
		VerifyAttestationSigs: true,
	}
	resetCfg := features.InitWithReset(cfg)
	defer resetCfg()
*/
package features

import (
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var log = logrus.WithField("prefix", "flags")

// Flags is a struct to represent which features the client will perform on runtime.
type Flags struct {
	// Feature related flags.
	SkipBLSVerify           bool // Skips BLS verification across the runtime.
	EnableLenientFFGSource  bool // Accept attestation source checkpoints within a two epoch drift of the justified checkpoint.
	DisableCommitteeCache   bool // Computes committee assignments on every request instead of consulting the shuffled-indices cache.
	EnableVectorizedHTR     bool // Enables the new go sha256 library for merkle trie computations.
	WriteRewardLedgerToLogs bool // Emits a debug log line for every reward credit the incentives engine applies.
}

var featureConfig *Flags

// Get retrieves feature config.
func Get() *Flags {
	if featureConfig == nil {
		return &Flags{}
	}
	return featureConfig
}

// Init sets the global config equal to the config that is passed in.
func Init(c *Flags) {
	featureConfig = c
}

// InitWithReset sets the global config and returns function that is used to reset configuration.
func InitWithReset(c *Flags) func() {
	resetFunc := func() {
		Init(&Flags{})
	}
	Init(c)
	return resetFunc
}

// ConfigureBeaconChain sets the global config based
// on what flags are enabled for the beacon-chain client.
func ConfigureBeaconChain(ctx *cli.Context) {
	complainOnDeprecatedFlags(ctx)
	cfg := &Flags{}
	if ctx.Bool(skipBLSVerifyFlag.Name) {
		log.Warn("UNSAFE: Skipping BLS verification at runtime")
		cfg.SkipBLSVerify = true
	}
	if ctx.Bool(enableLenientFFGSourceFlag.Name) {
		log.Warn("Enabling lenient FFG source checkpoint matching")
		cfg.EnableLenientFFGSource = true
	}
	if ctx.Bool(disableCommitteeCacheFlag.Name) {
		log.Warn("Disabled committee cache")
		cfg.DisableCommitteeCache = true
	}
	if ctx.Bool(enableVectorizedHTR.Name) {
		log.Warn("Enabling vectorized hash tree root")
		cfg.EnableVectorizedHTR = true
	}
	if ctx.Bool(writeRewardLedgerFlag.Name) {
		cfg.WriteRewardLedgerToLogs = true
	}
	Init(cfg)
}

func complainOnDeprecatedFlags(ctx *cli.Context) {
	for _, f := range deprecatedFlags {
		if ctx.IsSet(f.Names()[0]) {
			log.Errorf("%s is deprecated and has no effect. Do not use this flag, it will be deleted soon.", f.Names()[0])
		}
	}
}
