package params

// MainnetConfig returns the configuration to be used in the main network.
func MainnetConfig() *BeaconChainConfig {
	if mainnetBeaconConfig.ForkVersionSchedule == nil {
		mainnetBeaconConfig.InitializeForkSchedule()
	}
	return mainnetBeaconConfig
}

// UseMainnetConfig for beacon chain services.
func UseMainnetConfig() {
	beaconConfig = MainnetConfig()
}

var mainnetBeaconConfig = &BeaconChainConfig{
	// Constants (non-configurable).
	FarFutureEpoch:      1<<64 - 1,
	FarFutureSlot:       1<<64 - 1,
	BaseRewardsPerEpoch: 4,
	GenesisDelay:        604800, // 1 week.

	// Misc constant.
	PresetBase:                     "mainnet",
	ConfigName:                     ConfigNames[Mainnet],
	TargetCommitteeSize:            128,
	MaxValidatorsPerCommittee:      2048,
	MaxCommitteesPerSlot:           64,
	MinPerEpochChurnLimit:          4,
	ChurnLimitQuotient:             1 << 16,
	ShuffleRoundCount:              90,
	MinGenesisActiveValidatorCount: 16384,
	MinGenesisTime:                 1655733600, // June 20, 2022, 2pm UTC.
	HysteresisQuotient:             4,
	HysteresisDownwardMultiplier:   1,
	HysteresisUpwardMultiplier:     5,

	// Gwei value constants.
	MinDepositAmount:          1 * 1e9,
	MaxEffectiveBalance:       32 * 1e9,
	EjectionBalance:           16 * 1e9,
	EffectiveBalanceIncrement: 1 * 1e9,

	// Initial value constants.
	BLSWithdrawalPrefixByte: byte(0),
	ZeroHash:                [32]byte{},

	// Time parameter constants.
	MinAttestationInclusionDelay:     1,
	SecondsPerSlot:                   12,
	SlotsPerEpoch:                    32,
	SqrRootSlotsPerEpoch:             5,
	MinSeedLookahead:                 1,
	MaxSeedLookahead:                 4,
	SlotsPerHistoricalRoot:           8192,
	MinValidatorWithdrawabilityDelay: 256,
	ShardCommitteePeriod:             256,
	MinEpochsToInactivityPenalty:     4,

	// State list length constants.
	EpochsPerHistoricalVector: 65536,
	EpochsPerSlashingsVector:  8192,
	HistoricalRootsLimit:      16777216,
	ValidatorRegistryLimit:    1099511627776,

	// Reward and penalty quotients constants.
	BaseRewardFactor:               64,
	WhistleBlowerRewardQuotient:    512,
	ProposerRewardQuotient:         8,
	InactivityPenaltyQuotient:      67108864,
	MinSlashingPenaltyQuotient:     128,
	ProportionalSlashingMultiplier: 1,

	// Max operations per block constants.
	MaxProposerSlashings: 16,
	MaxAttesterSlashings: 2,
	MaxAttestations:      128,
	MaxDeposits:          16,
	MaxVoluntaryExits:    16,

	// BLS domain values.
	DomainBeaconProposer:              [4]byte{0, 0, 0, 0},
	DomainBeaconAttester:              [4]byte{1, 0, 0, 0},
	DomainRandao:                      [4]byte{2, 0, 0, 0},
	DomainDeposit:                     [4]byte{3, 0, 0, 0},
	DomainVoluntaryExit:               [4]byte{4, 0, 0, 0},
	DomainSelectionProof:              [4]byte{5, 0, 0, 0},
	DomainAggregateAndProof:           [4]byte{6, 0, 0, 0},
	DomainSyncCommittee:               [4]byte{7, 0, 0, 0},
	DomainSyncCommitteeSelectionProof: [4]byte{8, 0, 0, 0},
	DomainContributionAndProof:        [4]byte{9, 0, 0, 0},

	// Gridbox reward distribution values. Sink registry indices are
	// genesis-allocated protocol accounts.
	ValidatorRewardSharePercent: 70,
	TreasurySinkIndex:           0,
	TreasuryRewardSharePercent:  20,
	MarketingSinkIndex:          1,
	MarketingRewardSharePercent: 10,

	// Fork related values.
	GenesisForkVersion:   []byte{0, 0, 0, 0x47},
	AltairForkVersion:    []byte{1, 0, 0, 0x47},
	AltairForkEpoch:      256,
	BellatrixForkVersion: []byte{2, 0, 0, 0x47},
	BellatrixForkEpoch:   1<<64 - 1,

	// New values introduced in Altair hard fork 1.
	// Updated penalty values.
	InactivityPenaltyQuotientAltair:         3 * 1 << 24, // 50331648
	MinSlashingPenaltyQuotientAltair:        64,
	ProportionalSlashingMultiplierAltair:    2,
	MinSlashingPenaltyQuotientBellatrix:     32,
	ProportionalSlashingMultiplierBellatrix: 3,
	InactivityPenaltyQuotientBellatrix:      1 << 24, // 16777216

	// Sync committee.
	SyncCommitteeSize:            512,
	EpochsPerSyncCommitteePeriod: 256,
	MinSyncCommitteeParticipants: 1,

	// Updated penalty values.
	InactivityScoreBias:         4,
	InactivityScoreRecoveryRate: 16,

	// Participation flag indices.
	TimelySourceFlagIndex: 0,
	TimelyTargetFlagIndex: 1,
	TimelyHeadFlagIndex:   2,

	// Incentivization weight values.
	TimelySourceWeight: 14,
	TimelyTargetWeight: 26,
	TimelyHeadWeight:   14,
	SyncRewardWeight:   2,
	ProposerWeight:     8,
	WeightDenominator:  64,
}

// MainnetTestConfig provides a version of the mainnet config that has a different name
// and a different fork choice schedule. Used in cases where we want to use config values
// that are consistent with mainnet, but won't conflict or cause the hard-coded genesis
// to be loaded.
func MainnetTestConfig() *BeaconChainConfig {
	mn := MainnetConfig().Copy()
	mn.ConfigName = ConfigNames[Mainnet] + "_test"
	mn.InitializeForkSchedule()
	return mn
}
