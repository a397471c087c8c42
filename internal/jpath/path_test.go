package jpath

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	cases := []struct {
		path string
		want []string
	}{
		{"a/b/c", []string{"a", "b", "c"}},
		{"/a/b/", []string{"a", "b"}},
		{"a//b", []string{"a", "b"}},
		{"", nil},
		{"///", nil},
		{"a", []string{"a"}},
	}
	for _, c := range cases {
		got := Split(c.path)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Split(%q) = %#v, want %#v", c.path, got, c.want)
		}
	}
}

func TestJoin(t *testing.T) {
	if got := Join("a", "", "b", "c"); got != "a/b/c" {
		t.Errorf("Join = %q, want a/b/c", got)
	}
}

func TestIterator(t *testing.T) {
	it := NewIterator("//a/b//c/")
	var got []string
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, p)
	}
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("iterator = %#v, want %#v", got, want)
	}
}
