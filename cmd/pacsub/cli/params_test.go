// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"
	"time"
)

func TestBindFlags_AllTypes(t *testing.T) {
	type params struct {
		Name    string        `flag:"name"    desc:"a string"   default:"core"`
		Force   bool          `flag:"force,f" desc:"a bool"`
		Count   int           `flag:"count"   desc:"an int"     default:"3"`
		Wait    time.Duration `flag:"wait"    desc:"a duration" default:"5s"`
		Targets []string      `flag:"targets" desc:"a list"`
		Skipped string
	}

	var p params
	flagSet := FlagsFromParams("test", &p)
	err := flagSet.Parse([]string{
		"--name", "extra",
		"-f",
		"--wait", "250ms",
		"--targets", "a,b",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Name != "extra" {
		t.Errorf("Name = %q, want extra", p.Name)
	}
	if !p.Force {
		t.Error("Force = false, want true via shorthand")
	}
	if p.Count != 3 {
		t.Errorf("Count = %d, want default 3", p.Count)
	}
	if p.Wait != 250*time.Millisecond {
		t.Errorf("Wait = %v, want 250ms", p.Wait)
	}
	if len(p.Targets) != 2 || p.Targets[0] != "a" || p.Targets[1] != "b" {
		t.Errorf("Targets = %v, want [a b]", p.Targets)
	}
	if flagSet.Lookup("skipped") != nil {
		t.Error("untagged field was bound")
	}
}

func TestBindFlags_EmbeddedStruct(t *testing.T) {
	type common struct {
		Verbose bool `flag:"verbose" desc:"chatty output"`
	}
	type params struct {
		common
		Name string `flag:"name" desc:"target name"`
	}

	var p params
	flagSet := FlagsFromParams("test", &p)
	if err := flagSet.Parse([]string{"--verbose", "--name", "x"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.Verbose || p.Name != "x" {
		t.Errorf("params = %+v", p)
	}
}

func TestBindFlags_RejectsNonPointer(t *testing.T) {
	type params struct{}
	flagSet := FlagsFromParams("test", &params{})
	if err := BindFlags(params{}, flagSet); err == nil {
		t.Error("BindFlags accepted a non-pointer")
	}
}

func TestBindFlags_UnsupportedType(t *testing.T) {
	type params struct {
		Bad float64 `flag:"bad"`
	}
	defer func() {
		if recover() == nil {
			t.Error("FlagsFromParams did not panic on unsupported field type")
		}
	}()
	var p params
	FlagsFromParams("test", &p)
}
