package domain

const (
	kgToLb   = 2.2046226218
	inToCm   = 2.54
	kcalToKJ = 4.184
)

// ConvertWeight converts a weight value between "kg" and "lb".
// Returns v unchanged if from == to or if the units are unrecognised.
func ConvertWeight(v float64, from, to string) float64 {
	if from == to {
		return v
	}
	if from == UnitKg && to == UnitLb {
		return v * kgToLb
	}
	if from == UnitLb && to == UnitKg {
		return v / kgToLb
	}
	return v
}

// ConvertHeight converts a height value between "cm" and "in".
func ConvertHeight(v float64, from, to string) float64 {
	if from == to {
		return v
	}
	if from == UnitIn && to == UnitCm {
		return v * inToCm
	}
	if from == UnitCm && to == UnitIn {
		return v / inToCm
	}
	return v
}

// ConvertEnergy converts an energy value between "kcal" and "kJ".
func ConvertEnergy(v float64, from, to string) float64 {
	if from == to {
		return v
	}
	if from == UnitKcal && to == UnitKJ {
		return v * kcalToKJ
	}
	if from == UnitKJ && to == UnitKcal {
		return v / kcalToKJ
	}
	return v
}

// StorageUnit returns the canonical unit values of q are stored in.
func StorageUnit(q QuantityType) string {
	switch q {
	case Weight, LeanBodyMass:
		return UnitKg
	case Height:
		return UnitCm
	case RestingEnergy, ActiveEnergy:
		return UnitKcal
	}
	return ""
}

// Convert converts a value of q between two units of the matching dimension.
func Convert(q QuantityType, v float64, from, to string) float64 {
	switch q {
	case Weight, LeanBodyMass:
		return ConvertWeight(v, from, to)
	case Height:
		return ConvertHeight(v, from, to)
	case RestingEnergy, ActiveEnergy:
		return ConvertEnergy(v, from, to)
	}
	return v
}

// ValidUnit reports whether unit can express values of q.
func ValidUnit(q QuantityType, unit string) bool {
	switch q {
	case Weight, LeanBodyMass:
		return unit == UnitKg || unit == UnitLb
	case Height:
		return unit == UnitCm || unit == UnitIn
	case RestingEnergy, ActiveEnergy:
		return unit == UnitKcal || unit == UnitKJ
	}
	return false
}
