package woss

import "testing"

func TestFixedTimeReferenceAlwaysReportsSameInstant(t *testing.T) {
	at := NewTime(2024, 6, 1, 12, 0, 0)
	ref := FixedTimeReference{At: at}

	if !ref.Now().Equal(at) {
		t.Fatal("FixedTimeReference.Now should always return the configured instant")
	}
	if !ref.Now().Equal(ref.Now()) {
		t.Fatal("FixedTimeReference should be stable across calls")
	}
}

func TestSystemTimeReferenceReturnsValidTime(t *testing.T) {
	ref := SystemTimeReference{}
	if !ref.Now().Valid() {
		t.Fatal("SystemTimeReference.Now should report a valid Time")
	}
}

func TestSolarElevationDegEquatorNoonIsHigh(t *testing.T) {
	noon := NewTime(2024, 3, 20, 12, 0, 0)
	elev := SolarElevationDeg(noon, 0, 0)
	if elev < 60 {
		t.Fatalf("equinox noon at the equator should give a high solar elevation, got %v", elev)
	}
}

func TestSolarElevationDegMidnightIsNegative(t *testing.T) {
	midnight := NewTime(2024, 3, 20, 0, 0, 0)
	elev := SolarElevationDeg(midnight, 0, 0)
	if elev > 0 {
		t.Fatalf("midnight at the equator should give a negative solar elevation, got %v", elev)
	}
}

func TestSolarElevationDegStaysWithinValidRange(t *testing.T) {
	for _, hour := range []int{0, 6, 12, 18} {
		at := NewTime(2024, 7, 15, hour, 0, 0)
		elev := SolarElevationDeg(at, 35, -80)
		if elev < -90 || elev > 90 {
			t.Fatalf("SolarElevationDeg(hour=%d) out of range: got %v", hour, elev)
		}
	}
}
