package woss

import "testing"

func TestDefaultDefinitionRegistryPrototypesAreNotValid(t *testing.T) {
	r := NewDefaultDefinitionRegistry()

	if r.NewSediment().Valid() {
		t.Fatal("default Sediment prototype should be the not-valid sentinel")
	}
	if r.NewSSP().Valid() {
		t.Fatal("default SSP prototype should be the not-valid sentinel")
	}
	if r.NewAltimetry().Valid() {
		t.Fatal("default Altimetry prototype should be the not-valid sentinel")
	}
}

func TestDefinitionRegistryPrototypeOverridesAreUsed(t *testing.T) {
	r := NewDefaultDefinitionRegistry()
	want := NewSediment("sand", 1600, 0, 1.9, 0.8, 0, 3.0)

	r.SetSedimentPrototype(func() Sediment { return want })

	if got := r.NewSediment(); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDefinitionRegistryNewTransducerUsesOverride(t *testing.T) {
	r := NewDefaultDefinitionRegistry()
	called := false
	r.SetTransducerPrototype(func(c CustomTransducer) Transducer {
		called = true
		return NewTransducer(c)
	})

	r.NewTransducer(CustomTransducer{Type: TransducerOmni})

	if !called {
		t.Fatal("overridden transducer prototype constructor was not invoked")
	}
}
