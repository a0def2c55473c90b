package params

// UseE2EConfig for beacon chain services.
func UseE2EConfig() {
	beaconConfig = E2ETestConfig()
}

// E2ETestConfig retrieves the configurations made specifically for end-to-end testing.
// Fork epochs are pulled close to genesis so every version variant gets exercised in a
// short-lived run.
func E2ETestConfig() *BeaconChainConfig {
	e2eConfig := MinimalSpecConfig()
	e2eConfig.ConfigName = ConfigNames[EndToEnd]

	// Misc.
	e2eConfig.MinGenesisActiveValidatorCount = 256
	e2eConfig.GenesisDelay = 10 // 10 seconds so tests spin up quickly.
	e2eConfig.SqrRootSlotsPerEpoch = 2

	// Time parameters.
	e2eConfig.SecondsPerSlot = 10
	e2eConfig.SlotsPerEpoch = 6
	e2eConfig.ShardCommitteePeriod = 4

	// Fork schedule.
	e2eConfig.AltairForkEpoch = 6
	e2eConfig.GenesisForkVersion = []byte{0, 0, 0, 0xe7}
	e2eConfig.AltairForkVersion = []byte{1, 0, 0, 0xe7}
	e2eConfig.BellatrixForkVersion = []byte{2, 0, 0, 0xe7}

	e2eConfig.InitializeForkSchedule()
	return e2eConfig
}
