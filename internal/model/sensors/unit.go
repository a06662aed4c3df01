package sensors

import (
	"fmt"
	"strings"
)

type TemperatureUnit int

const (
	Celsius TemperatureUnit = iota
	Fahrenheit
)

type HumidityUnit int

const (
	Percent HumidityUnit = iota
)

type CO2Unit int

const (
	Ppm CO2Unit = iota
)

// vocabulary is the closed set of units for one sensor kind: the canonical
// label of each member and the lower-case aliases accepted when parsing.
type vocabulary[U ~int] struct {
	name    string
	labels  map[U]string
	aliases map[string]U
}

func (v vocabulary[U]) parse(text string) (U, error) {
	if u, ok := v.aliases[strings.ToLower(text)]; ok {
		return u, nil
	}
	var zero U
	return zero, &InvalidUnitError{Unit: text}
}

func (v vocabulary[U]) label(u U) string {
	if s, ok := v.labels[u]; ok {
		return s
	}
	return fmt.Sprintf("%s(%d)", v.name, int(u))
}

var temperatureUnits = vocabulary[TemperatureUnit]{
	name:   "TemperatureUnit",
	labels: map[TemperatureUnit]string{Celsius: "Celsius", Fahrenheit: "Fahrenheit"},
	aliases: map[string]TemperatureUnit{
		"celsius":    Celsius,
		"c":          Celsius,
		"fahrenheit": Fahrenheit,
		"f":          Fahrenheit,
	},
}

var humidityUnits = vocabulary[HumidityUnit]{
	name:    "HumidityUnit",
	labels:  map[HumidityUnit]string{Percent: "Percent"},
	aliases: map[string]HumidityUnit{"percent": Percent, "%": Percent},
}

var co2Units = vocabulary[CO2Unit]{
	name:    "CO2Unit",
	labels:  map[CO2Unit]string{Ppm: "ppm"},
	aliases: map[string]CO2Unit{"ppm": Ppm},
}

// ParseTemperatureUnit accepts "celsius", "c", "fahrenheit" and "f" in any case.
func ParseTemperatureUnit(text string) (TemperatureUnit, error) {
	return temperatureUnits.parse(text)
}

// ParseHumidityUnit accepts "percent" in any case, or "%".
func ParseHumidityUnit(text string) (HumidityUnit, error) {
	return humidityUnits.parse(text)
}

// ParseCO2Unit accepts "ppm" in any case.
func ParseCO2Unit(text string) (CO2Unit, error) {
	return co2Units.parse(text)
}

func (u TemperatureUnit) String() string { return temperatureUnits.label(u) }

func (u HumidityUnit) String() string { return humidityUnits.label(u) }

func (u CO2Unit) String() string { return co2Units.label(u) }
