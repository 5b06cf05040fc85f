package woss

import "testing"

func TestWossCreatorContainerPrecedence(t *testing.T) {
	tx := NewCoordZ(10, 20, 0)
	rx := NewCoordZ(11, 21, 100)
	other := NewCoordZ(50, 60, 0)

	c := NewWossCreatorContainer[int]("test")
	c.Replace(nil, nil, 1)

	if got := c.Get(tx, rx); got != 1 {
		t.Fatalf("wildcard default: got %d, want 1", got)
	}

	txRegion := NewCircularRegion(tx, 10)
	c.Replace(txRegion, nil, 2)
	if got := c.Get(tx, rx); got != 2 {
		t.Fatalf("exact tx + wildcard rx should win over full wildcard: got %d, want 2", got)
	}
	if got := c.Get(other, rx); got != 1 {
		t.Fatalf("non-matching tx should fall back to wildcard: got %d, want 1", got)
	}

	rxRegion := NewCircularRegion(rx, 10)
	c.Replace(nil, rxRegion, 3)
	if got := c.Get(other, rx); got != 3 {
		t.Fatalf("wildcard tx + exact rx should win over full wildcard: got %d, want 3", got)
	}

	c.Replace(txRegion, rxRegion, 4)
	if got := c.Get(tx, rx); got != 4 {
		t.Fatalf("exact tx + exact rx should be highest precedence: got %d, want 4", got)
	}
}

func TestWossCreatorContainerMissReturnsZeroValue(t *testing.T) {
	c := NewWossCreatorContainer[int]("empty")
	if got := c.Get(NewCoordZ(0, 0, 0), NewCoordZ(1, 1, 0)); got != 0 {
		t.Fatalf("miss should return zero value: got %d", got)
	}
}

func TestWossCreatorContainerInsertDoesNotOverwrite(t *testing.T) {
	c := NewWossCreatorContainer[int]("test")
	if !c.Insert(nil, nil, 1) {
		t.Fatal("first insert should succeed")
	}
	if c.Insert(nil, nil, 2) {
		t.Fatal("second insert at the same key should fail")
	}
	if got := c.Get(NewCoordZ(0, 0, 0), NewCoordZ(0, 0, 0)); got != 1 {
		t.Fatalf("insert should not overwrite: got %d, want 1", got)
	}
}

func TestWossCreatorContainerReplaceOverwrites(t *testing.T) {
	c := NewWossCreatorContainer[int]("test")
	c.Insert(nil, nil, 1)
	c.Replace(nil, nil, 2)
	if got := c.Get(NewCoordZ(0, 0, 0), NewCoordZ(0, 0, 0)); got != 2 {
		t.Fatalf("replace should overwrite: got %d, want 2", got)
	}
}

func TestWossCreatorContainerErase(t *testing.T) {
	c := NewWossCreatorContainer[int]("test")
	c.Replace(nil, nil, 1)
	if !c.Erase(nil, nil) {
		t.Fatal("erase of existing entry should succeed")
	}
	if c.Erase(nil, nil) {
		t.Fatal("erase of already-removed entry should fail")
	}
	if got := c.Get(NewCoordZ(0, 0, 0), NewCoordZ(0, 0, 0)); got != 0 {
		t.Fatalf("after erase, lookup should miss: got %d", got)
	}
}

func TestWossCreatorContainerInsertCoordUsesPointRegion(t *testing.T) {
	c := NewWossCreatorContainer[int]("test")
	tx := NewCoordZ(10, 20, 0)
	rx := NewCoordZ(11, 21, 100)

	if !c.InsertCoord(tx, rx, 5) {
		t.Fatal("InsertCoord should succeed on an empty container")
	}
	if got := c.Get(tx, rx); got != 5 {
		t.Fatalf("got %d, want 5", got)
	}

	near := tx.Destination(0, 0.5)
	if got := c.Get(near, rx); got != 5 {
		t.Fatalf("a coordinate within the default point radius should still match: got %d", got)
	}
}

func TestWossCreatorContainerClearDropsAllEntries(t *testing.T) {
	c := NewWossCreatorContainer[int]("test")
	c.Replace(nil, nil, 1)
	c.Clear()

	if got := c.Get(NewCoordZ(0, 0, 0), NewCoordZ(0, 0, 0)); got != 0 {
		t.Fatalf("after Clear, lookup should miss: got %d", got)
	}
}

func TestTransducerContainerRotationOffset(t *testing.T) {
	tc := NewTransducerContainer()

	base := CustomTransducer{
		Type: TransducerCosine,
		Orientation: TransducerOrientation{
			VerticalRotation: 0.1,
		},
	}
	tc.Replace(nil, nil, base)

	orientedCenter := NewCoordZ(5, 5, 0)
	oriented := NewOrientedCircularRegion(orientedCenter, 10, TransducerOrientation{
		VerticalRotation:   0.2,
		HorizontalRotation: 0.05,
	})
	tc.Replace(oriented, nil, base)

	got := tc.Get(orientedCenter, NewCoordZ(6, 6, 0))
	want := 0.1 + 0.2
	if got.Orientation.VerticalRotation != want {
		t.Fatalf("rotation offset not applied: got %v, want %v", got.Orientation.VerticalRotation, want)
	}

	plain := tc.Get(NewCoordZ(90, 90, 0), NewCoordZ(91, 91, 0))
	if plain.Orientation.VerticalRotation != 0.1 {
		t.Fatalf("wildcard-resolved entry should not be rotation-offset: got %v", plain.Orientation.VerticalRotation)
	}
}
