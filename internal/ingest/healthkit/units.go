package healthkit

// Unit conversion into the canonical unit for each metric type. Each helper
// takes the value and the HKUnit string the client read the sample with, and
// reports false for units it cannot convert (the sample is then skipped).

func unitCount(v float64, unit string) (float64, bool) {
	switch unit {
	case "count", "steps", "":
		return v, true
	default:
		return 0, false
	}
}

func toKilometers(v float64, unit string) (float64, bool) {
	switch unit {
	case "km":
		return v, true
	case "m":
		return v / 1000, true
	case "mi":
		return v * 1.609344, true
	default:
		return 0, false
	}
}

func toKilocalories(v float64, unit string) (float64, bool) {
	switch unit {
	case "kcal", "Cal":
		return v, true
	case "cal":
		return v / 1000, true
	case "kJ":
		return v / 4.184, true
	default:
		return 0, false
	}
}

func toMinutes(v float64, unit string) (float64, bool) {
	switch unit {
	case "min":
		return v, true
	case "s":
		return v / 60, true
	case "hr":
		return v * 60, true
	default:
		return 0, false
	}
}

func toBPM(v float64, unit string) (float64, bool) {
	switch unit {
	case "count/min", "bpm", "":
		return v, true
	default:
		return 0, false
	}
}

func toMilliseconds(v float64, unit string) (float64, bool) {
	switch unit {
	case "ms":
		return v, true
	case "s":
		return v * 1000, true
	default:
		return 0, false
	}
}

// toPercent accepts both the 0-1 fraction HealthKit uses for percentage
// quantities and an explicit percent unit.
func toPercent(v float64, unit string) (float64, bool) {
	switch unit {
	case "%", "percent":
		return v, true
	case "", "fraction":
		return v * 100, true
	default:
		return 0, false
	}
}

func unitMmHg(v float64, unit string) (float64, bool) {
	switch unit {
	case "mmHg", "":
		return v, true
	default:
		return 0, false
	}
}

func toKilograms(v float64, unit string) (float64, bool) {
	switch unit {
	case "kg":
		return v, true
	case "g":
		return v / 1000, true
	case "lb":
		return v * 0.45359237, true
	default:
		return 0, false
	}
}

func toGrams(v float64, unit string) (float64, bool) {
	switch unit {
	case "g":
		return v, true
	case "mg":
		return v / 1000, true
	case "kg":
		return v * 1000, true
	default:
		return 0, false
	}
}

func toMilliliters(v float64, unit string) (float64, bool) {
	switch unit {
	case "mL", "ml":
		return v, true
	case "L", "l":
		return v * 1000, true
	case "fl_oz_us":
		return v * 29.5735295625, true
	default:
		return 0, false
	}
}
