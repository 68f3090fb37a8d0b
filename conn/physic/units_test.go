// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package physic

import (
	"testing"
	"time"
)

func TestFrequencyString(t *testing.T) {
	if s := Hertz.String(); s != "1Hz" {
		t.Fatalf("%#v", s)
	}
	if s := (100 * KiloHertz).String(); s != "100kHz" {
		t.Fatalf("%#v", s)
	}
	if s := (500 * MilliHertz).String(); s != "500mHz" {
		t.Fatalf("%#v", s)
	}
}

func TestFrequencySet(t *testing.T) {
	var f Frequency
	if err := f.Set("100Hz"); err != nil {
		t.Fatal(err)
	}
	if f != 100*Hertz {
		t.Fatalf("%#v", f)
	}
	if err := f.Set("1kHz"); err != nil {
		t.Fatal(err)
	}
	if f != KiloHertz {
		t.Fatalf("%#v", f)
	}
}

func TestFrequencySetRejectsMissingUnit(t *testing.T) {
	var f Frequency
	if err := f.Set("100"); err == nil {
		t.Fatal("expected error for missing unit")
	}
}

func TestFrequencyDuration(t *testing.T) {
	if d := Hertz.Duration(); d != time.Second {
		t.Fatalf("%v", d)
	}
	if d := (2 * Hertz).Duration(); d != 500*time.Millisecond {
		t.Fatalf("%v", d)
	}
}

func TestPeriodToFrequency(t *testing.T) {
	if f := PeriodToFrequency(time.Second); f != Hertz {
		t.Fatalf("%#v", f)
	}
	if f := PeriodToFrequency(20 * time.Millisecond); f != 50*Hertz {
		t.Fatalf("%#v", f)
	}
}
