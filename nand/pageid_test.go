package nand

import "testing"

func TestPageIDLess(t *testing.T) {
	tests := []struct {
		name string
		a, b PageID
		want bool
	}{
		{"wasted less than valid", PageIDWasted, PageIDFirst, true},
		{"valid not less than wasted", PageIDFirst, PageIDWasted, false},
		{"wasted not less than wasted", PageIDWasted, PageIDWasted, false},
		{"lower id less than higher", PageIDFirst, PageIDFirst.Next(), true},
		{"higher id not less than lower", PageIDFirst.Next(), PageIDFirst, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Less(tt.b); got != tt.want {
				t.Errorf("Less() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPageIDNext(t *testing.T) {
	n := PageIDFirst.Next()
	if !n.Valid || n.ID != 2 {
		t.Fatalf("Next() = %+v, want {Valid:true ID:2}", n)
	}
}

func TestPageIDNextOnWastedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling Next on a wasted PageID")
		}
	}()
	PageIDWasted.Next()
}
