package features

import (
	"flag"
	"testing"

	"github.com/urfave/cli/v2"
)

func TestInitWithReset(t *testing.T) {
	Init(&Flags{EnableLenientFFGSource: true})
	c := Get()
	if !c.EnableLenientFFGSource {
		t.Errorf("EnableLenientFFGSource in FeatureFlags incorrect. Wanted true, got false")
	}

	resetCfg := InitWithReset(&Flags{SkipBLSVerify: true})
	if !Get().SkipBLSVerify {
		t.Errorf("SkipBLSVerify in FeatureFlags incorrect. Wanted true, got false")
	}
	resetCfg()
	if Get().SkipBLSVerify || Get().EnableLenientFFGSource {
		t.Errorf("reset did not restore empty flags, got %+v", Get())
	}
}

func TestConfigureBeaconChain(t *testing.T) {
	app := cli.App{}
	set := flag.NewFlagSet("test", 0)
	set.Bool(enableLenientFFGSourceFlag.Name, true, "test")
	ctx := cli.NewContext(&app, set, nil)
	ConfigureBeaconChain(ctx)
	c := Get()
	if !c.EnableLenientFFGSource {
		t.Errorf("EnableLenientFFGSource in FeatureFlags incorrect. Wanted true, got false")
	}
}
