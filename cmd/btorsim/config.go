package main

// Config is the fully-resolved set of options a run executes with, built
// from CLI flags by cobra/pflag (see root.go). It plays the role of
// netrix's JSON Config struct, minus the file: btorsim has no persistent
// configuration, only flags.
type Config struct {
	Checking    bool
	Verbosity   int
	Steps       int64
	Seed        uint32
	FakeBad     int64
	FakeJustice int64
	States      bool

	ModelPath   string
	WitnessPath string
}

// NoFakeIndex marks FakeBad/FakeJustice as unset.
const NoFakeIndex = -1

func defaultConfig() *Config {
	return &Config{
		Steps:       20,
		FakeBad:     NoFakeIndex,
		FakeJustice: NoFakeIndex,
	}
}
