package main

import (
	"os"
	"strconv"

	"github.com/db47h/btorsim/btor2parse"
	"github.com/db47h/btorsim/internal/btorlog"
	"github.com/db47h/btorsim/model"
	"github.com/db47h/btorsim/sim"
	"github.com/db47h/btorsim/witness"
	"github.com/pkg/errors"
)

func run(cfg *Config) error {
	btorlog.Init(cfg.Verbosity)

	modelPath := cfg.ModelPath
	var modelFile *os.File
	if modelPath == "" || modelPath == "-" {
		modelFile = os.Stdin
		modelPath = "<stdin>"
	} else {
		f, err := os.Open(modelPath)
		if err != nil {
			return errors.Wrapf(err, "opening '%s'", modelPath)
		}
		defer f.Close()
		modelFile = f
	}

	btorlog.Infof("parsing model '%s'", modelPath)
	m, err := btor2parse.Parse(modelFile, modelPath)
	if err != nil {
		return err
	}

	if cfg.WitnessPath != "" {
		return runChecking(cfg, m)
	}
	return runRandom(cfg, m)
}

func runRandom(cfg *Config, m *model.Model) error {
	header := make([]string, 0, 2)
	if cfg.FakeBad != NoFakeIndex {
		header = append(header, "b"+itoa(cfg.FakeBad))
	}
	if cfg.FakeJustice != NoFakeIndex {
		if int(cfg.FakeJustice) >= len(m.Justices) {
			return errors.Errorf("invalid faked justice property number %d", cfg.FakeJustice)
		}
		header = append(header, "j"+itoa(cfg.FakeJustice))
	}

	d, err := sim.NewDriver(m)
	if err != nil {
		return err
	}
	src := sim.NewRandomSource(cfg.Seed)

	var tr *sim.Trace
	if !cfg.Checking {
		tr = sim.NewTrace(cfg.States)
	}
	if err := d.Run(cfg.Steps, src, tr); err != nil {
		return err
	}

	for i, cycle := range d.BadCycle {
		if cycle >= 0 {
			header = append(header, "b"+itoa(int64(i)))
			btorlog.Infof("bad property b%d reached at cycle %d", i, cycle)
		}
	}
	if d.ConstraintViolated >= 0 {
		btorlog.Infof("constraints violated at time %d", d.ConstraintViolated)
	}

	if tr != nil {
		tr.Header = header
		return tr.WriteTo(os.Stdout)
	}
	return nil
}

func runChecking(cfg *Config, m *model.Model) error {
	wf, err := os.Open(cfg.WitnessPath)
	if err != nil {
		return errors.Wrapf(err, "opening '%s'", cfg.WitnessPath)
	}
	defer wf.Close()

	w, err := witness.Parse(wf, cfg.WitnessPath)
	if err != nil {
		return err
	}

	tr, err := witness.Check(m, w, witness.CheckOptions{
		Path:       cfg.WitnessPath,
		EmitTrace:  !cfg.Checking,
		EmitStates: cfg.States,
	})
	if err != nil {
		return err
	}
	if tr != nil {
		for _, p := range w.Properties {
			tr.Header = append(tr.Header, string(p.Kind)+itoa(int64(p.Index)))
		}
		return tr.WriteTo(os.Stdout)
	}
	return nil
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
