package woss

import "testing"

func TestTimeArrSumValueMergesWithinResolution(t *testing.T) {
	ta := NewTimeArr(1e-6)
	ta.SumValue(0.001, NewPressure(complex(1, 0)))
	ta.SumValue(0.001+1e-7, NewPressure(complex(2, 0)))

	if ta.Len() != 1 {
		t.Fatalf("arrivals within resolution should merge: got %d entries, want 1", ta.Len())
	}

	arrivals := ta.Arrivals()
	if arrivals[0].Pressure.Complex() != complex(3, 0) {
		t.Fatalf("merged pressure should sum coherently: got %v, want (3+0i)", arrivals[0].Pressure.Complex())
	}
}

func TestTimeArrSumValueKeepsDistinctDelaysSeparate(t *testing.T) {
	ta := NewTimeArr(1e-6)
	ta.SumValue(0.001, NewPressure(complex(1, 0)))
	ta.SumValue(0.002, NewPressure(complex(1, 0)))

	if ta.Len() != 2 {
		t.Fatalf("distinct delays should remain separate entries: got %d, want 2", ta.Len())
	}
}

func TestTimeArrSumValueKeepsSortedOrder(t *testing.T) {
	ta := NewTimeArr(1e-9)
	ta.SumValue(0.005, NewPressure(complex(1, 0)))
	ta.SumValue(0.001, NewPressure(complex(1, 0)))
	ta.SumValue(0.003, NewPressure(complex(1, 0)))

	arrivals := ta.Arrivals()
	for i := 1; i < len(arrivals); i++ {
		if arrivals[i].Delay < arrivals[i-1].Delay {
			t.Fatalf("arrivals must stay sorted by delay: %v", arrivals)
		}
	}
}

func TestTimeArrToPressureSumsAllArrivals(t *testing.T) {
	ta := NewTimeArr(1e-9)
	ta.SumValue(0.001, NewPressure(complex(1, 0)))
	ta.SumValue(0.002, NewPressure(complex(0, 1)))

	got := ta.ToPressure()
	want := complex(1, 1)
	if got.Complex() != want {
		t.Fatalf("ToPressure: got %v, want %v", got.Complex(), want)
	}
}

func TestTimeArrToPressureInvalidOnEmpty(t *testing.T) {
	ta := NewTimeArr(1e-9)
	if ta.ToPressure().Valid() {
		t.Fatal("ToPressure on an empty TimeArr should be invalid")
	}
	if CreateNotValid().ToPressure().Valid() {
		t.Fatal("ToPressure on the not-valid sentinel should be invalid")
	}
}

func TestTimeArrAddMergesTwoSequences(t *testing.T) {
	a := NewTimeArr(1e-9)
	a.SumValue(0.001, NewPressure(complex(1, 0)))

	b := NewTimeArr(1e-9)
	b.SumValue(0.001, NewPressure(complex(1, 0)))
	b.SumValue(0.002, NewPressure(complex(2, 0)))

	merged := a.Add(b)
	if merged.Len() != 2 {
		t.Fatalf("Add should merge matching delays and keep distinct ones: got %d entries, want 2", merged.Len())
	}

	for _, arr := range merged.Arrivals() {
		if arr.Delay == 0.001 && arr.Pressure.Complex() != complex(2, 0) {
			t.Fatalf("matching delay should coherently sum: got %v, want (2+0i)", arr.Pressure.Complex())
		}
	}
}

func TestTimeArrAddWithInvalidOperandReturnsOther(t *testing.T) {
	valid := CreateImpulse()
	invalid := CreateNotValid()

	if got := invalid.Add(valid); got.Len() != valid.Len() {
		t.Fatal("Add(invalid, valid) should return valid unchanged")
	}
	if got := valid.Add(invalid); got.Len() != valid.Len() {
		t.Fatal("Add(valid, invalid) should return valid unchanged")
	}
}

func TestCreateImpulseIsUnitAtZeroDelay(t *testing.T) {
	ta := CreateImpulse()
	if ta.Len() != 1 {
		t.Fatalf("impulse should have exactly one arrival, got %d", ta.Len())
	}
	arrivals := ta.Arrivals()
	if arrivals[0].Delay != 0 {
		t.Fatalf("impulse delay should be 0, got %v", arrivals[0].Delay)
	}
	if arrivals[0].Pressure.Complex() != complex(1, 0) {
		t.Fatalf("impulse pressure should be unit, got %v", arrivals[0].Pressure.Complex())
	}
}

func TestTimeArrDivScalar(t *testing.T) {
	ta := NewTimeArr(1e-9)
	ta.SumValue(0.001, NewPressure(complex(4, 2)))

	out := ta.DivScalar(2)
	arrivals := out.Arrivals()
	if arrivals[0].Pressure.Complex() != complex(2, 1) {
		t.Fatalf("DivScalar: got %v, want (2+1i)", arrivals[0].Pressure.Complex())
	}
}
