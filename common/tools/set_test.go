package tools

import (
	"reflect"
	"testing"
)

func TestSet(t *testing.T) {
	tests := []struct {
		init	[]string
		add		[]string
		del		[]string
		empty	bool
		sorted	[]string
		sVal	string
	} {
		{	// Init empty
			empty:	true,
			add:	[]string{"val1", "val2", "val3"},
			sorted:	[]string{"val1", "val2", "val3"},
			sVal:	"(val1, val2, val3)",
		},
		{	// Init non-empty
			init:	[]string{"val30", "val10", "val20"},
			add:	[]string{"val05", "val15", "val25"},
			sorted:	[]string{"val05", "val10", "val15", "val20", "val25", "val30"},
			sVal:	"(val05, val10, val15, val20, val25, val30)",
		},
		{	// Init empty, add duplicates
			empty:	true,
			add:	[]string{"val3", "val2", "val3", "val1", "val2", "val1", "val0"},
			sorted:	[]string{"val0", "val1", "val2", "val3"},
			sVal:	"(val0, val1, val2, val3)",
		},
		{	// Init non-empty, add and delete
			init:	[]string{"val1", "val2", "val3"},
			add:	[]string{"val0"},
			del:	[]string{"val2", "val-not-in-set"},
			sorted:	[]string{"val0", "val1", "val3"},
			sVal:	"(val0, val1, val3)",
		},
	}

	for testN, test := range tests {
		// Init new set
		s := NewSet(test.init...)

		// Test for empty
		if s.Empty() != test.empty {
			t.Errorf("[%d] method Empty returns %t, want - %t", testN, s.Empty(), test.empty)
			// Go to next test
			continue
		}

		// Test for adding and deletion of values
		s.Add(test.add...)
		s.Del(test.del...)

		// Test for produced sorted list
		if l := s.Sorted(); !reflect.DeepEqual(l, test.sorted) {
			t.Errorf("[%d] method Sorted returned %#v, want - %#v", testN, l, test.sorted)
			// Go to next test
			continue
		}

		// Test for length
		if s.Len() != len(test.sorted) {
			t.Errorf("[%d] method Len returned %d, want - %d", testN, s.Len(), len(test.sorted))
		}

		// Test for String method
		if sv := s.String(); sv != test.sVal {
			t.Errorf("[%d] method String returned %q, want - %q", testN, sv, test.sVal)
		}
	}
}

func TestSetIncludes(t *testing.T) {
	s := NewSet(10, 20, 30)

	if !s.Includes(20) {
		t.Errorf("set %v does not include value 20, but must", s)
	}
	if s.Includes(40) {
		t.Errorf("set %v includes value 40, but must not", s)
	}
}
