package utils

import (
	"reflect"
	"testing"
)

func TestFilterArray(t *testing.T) {
	got := FilterArray([]int{1, 2, 3, 4, 5}, func(v int) bool { return v%2 == 1 })
	if !reflect.DeepEqual(got, []int{1, 3, 5}) {
		t.Fatalf("unexpected result %v", got)
	}

	empty := FilterArray([]string{"a"}, func(string) bool { return false })
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}
}
