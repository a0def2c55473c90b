package params

const (
	Mainnet ConfigName = iota
	Minimal
	EndToEnd
)

const (
	// DomainByteLength length of domain byte array.
	DomainByteLength = 4
	// ForkVersionByteLength length of fork version byte array.
	ForkVersionByteLength = 4
)

// ConfigNames provides network configuration names.
var ConfigNames = map[ConfigName]string{
	Mainnet:  "gridbox-mainnet",
	Minimal:  "minimal",
	EndToEnd: "end-to-end",
}

// ConfigName enum describes the type of known network in use.
type ConfigName int

func (n ConfigName) String() string {
	s, ok := ConfigNames[n]
	if !ok {
		return "undefined"
	}
	return s
}

// AllConfigs returns the fully initialized version of every known configuration.
func AllConfigs() map[ConfigName]*BeaconChainConfig {
	all := make(map[ConfigName]*BeaconChainConfig)
	for name := range ConfigNames {
		var cfg *BeaconChainConfig
		switch name {
		case Mainnet:
			cfg = MainnetConfig()
		case Minimal:
			cfg = MinimalSpecConfig()
		case EndToEnd:
			cfg = E2ETestConfig()
		}
		cfg = cfg.Copy()
		cfg.InitializeForkSchedule()
		all[name] = cfg
	}
	return all
}
