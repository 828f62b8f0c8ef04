package healthkit

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestToKilometers verifies km/m/mi conversion and rejection of unknown units.
func TestToKilometers(t *testing.T) {
	if v, ok := toKilometers(5, "km"); !ok || v != 5 {
		t.Errorf("km = %v, %v", v, ok)
	}
	if v, ok := toKilometers(1500, "m"); !ok || v != 1.5 {
		t.Errorf("m = %v, %v", v, ok)
	}
	if v, ok := toKilometers(1, "mi"); !ok || !almostEqual(v, 1.609344) {
		t.Errorf("mi = %v, %v", v, ok)
	}
	if _, ok := toKilometers(1, "furlong"); ok {
		t.Error("furlong should be rejected")
	}
}

// TestToKilocalories verifies energy conversion including kJ.
func TestToKilocalories(t *testing.T) {
	if v, ok := toKilocalories(300, "kcal"); !ok || v != 300 {
		t.Errorf("kcal = %v, %v", v, ok)
	}
	if v, ok := toKilocalories(300, "Cal"); !ok || v != 300 {
		t.Errorf("Cal = %v, %v", v, ok)
	}
	if v, ok := toKilocalories(418.4, "kJ"); !ok || !almostEqual(v, 100) {
		t.Errorf("kJ = %v, %v", v, ok)
	}
}

// TestToMinutes verifies duration conversion from seconds and hours.
func TestToMinutes(t *testing.T) {
	if v, ok := toMinutes(90, "s"); !ok || v != 1.5 {
		t.Errorf("s = %v, %v", v, ok)
	}
	if v, ok := toMinutes(2, "hr"); !ok || v != 120 {
		t.Errorf("hr = %v, %v", v, ok)
	}
}

// TestToPercent verifies both fraction and explicit percent inputs.
func TestToPercent(t *testing.T) {
	if v, ok := toPercent(0.985, ""); !ok || !almostEqual(v, 98.5) {
		t.Errorf("fraction = %v, %v", v, ok)
	}
	if v, ok := toPercent(98.5, "%"); !ok || v != 98.5 {
		t.Errorf("percent = %v, %v", v, ok)
	}
}

// TestToKilograms verifies weight conversion from pounds and grams.
func TestToKilograms(t *testing.T) {
	if v, ok := toKilograms(180, "lb"); !ok || !almostEqual(v, 81.6466266) {
		t.Errorf("lb = %v, %v", v, ok)
	}
	if v, ok := toKilograms(75000, "g"); !ok || v != 75 {
		t.Errorf("g = %v, %v", v, ok)
	}
}

// TestToMilliliters verifies volume conversion including US fluid ounces.
func TestToMilliliters(t *testing.T) {
	if v, ok := toMilliliters(2, "L"); !ok || v != 2000 {
		t.Errorf("L = %v, %v", v, ok)
	}
	if v, ok := toMilliliters(8, "fl_oz_us"); !ok || !almostEqual(v, 236.5882365) {
		t.Errorf("fl_oz_us = %v, %v", v, ok)
	}
}

// TestToMilliseconds verifies HRV unit handling.
func TestToMilliseconds(t *testing.T) {
	if v, ok := toMilliseconds(0.065, "s"); !ok || v != 65 {
		t.Errorf("s = %v, %v", v, ok)
	}
	if v, ok := toMilliseconds(65, "ms"); !ok || v != 65 {
		t.Errorf("ms = %v, %v", v, ok)
	}
}
