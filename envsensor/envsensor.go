// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package envsensor converts environmental measurements into the integer
// units shown on the clock face.
package envsensor

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
)

// Sensor is implemented by periph environmental sensors such as bmxx80.Dev.
type Sensor interface {
	Sense(e *physic.Env) error
}

// Reading is one measurement.
type Reading struct {
	// Temperature in tenths of a degree Celsius.
	Temperature int
	// Pressure in hectopascal.
	Pressure uint32
	// Humidity in percent of relative humidity.
	Humidity uint32
}

const tenthCelsius = 100 * physic.MilliKelvin

// FromEnv rounds e to the units of Reading.
func FromEnv(e physic.Env) Reading {
	t := e.Temperature - physic.ZeroCelsius
	half := tenthCelsius / 2
	if t < 0 {
		half = -half
	}
	var r Reading
	r.Temperature = int((t + half) / tenthCelsius)
	if e.Pressure > 0 {
		r.Pressure = uint32((e.Pressure + 50*physic.Pascal) / (100 * physic.Pascal))
	}
	if e.Humidity > 0 {
		r.Humidity = uint32((e.Humidity + physic.PercentRH/2) / physic.PercentRH)
	}
	return r
}

// Read takes one measurement from s.
func Read(s Sensor) (Reading, error) {
	var e physic.Env
	if err := s.Sense(&e); err != nil {
		return Reading{}, fmt.Errorf("envsensor: sense: %w", err)
	}
	return FromEnv(e), nil
}

// NewBME280 opens a BME280 on bus with 16x oversampling of every quantity.
func NewBME280(bus i2c.Bus, addr uint16) (*bmxx80.Dev, error) {
	opts := bmxx80.Opts{Temperature: bmxx80.O16x, Pressure: bmxx80.O16x, Humidity: bmxx80.O16x}
	d, err := bmxx80.NewI2C(bus, addr, &opts)
	if err != nil {
		return nil, fmt.Errorf("envsensor: init bme280: %w", err)
	}
	return d, nil
}

func (r Reading) String() string {
	sign, t := "", r.Temperature
	if t < 0 {
		sign, t = "-", -t
	}
	return fmt.Sprintf("%s%d.%d°C %dhPa %d%%rH", sign, t/10, t%10, r.Pressure, r.Humidity)
}
