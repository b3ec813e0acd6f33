package props

import (
	"fmt"
	"slices"
	"testing"
)

func TestSet_absentVsEmpty(t *testing.T) {
	s := New("test", map[string]string{"empty": ""})
	if v, ok := s.Get("empty"); !ok {
		t.Error("empty property not present")
	} else if v != "" {
		t.Errorf("empty property has value '%s'", v)
	}
	if _, ok := s.Get("missing"); ok {
		t.Error("missing property is present")
	}
	var zero Set
	if _, ok := zero.Get("x"); ok {
		t.Error("zero set has property x")
	}
}

func TestSet_layers(t *testing.T) {
	root := New("root", map[string]string{"a": "1", "b": "2", "c": "3"})
	sub := root.Sub("sub")
	sub.Set("a", "10")
	sub.Del("c")
	if v, _ := sub.Get("a"); v != "10" {
		t.Errorf("a shadowed wrong: '%s'", v)
	}
	if v, _ := sub.Get("b"); v != "2" {
		t.Errorf("b inherited wrong: '%s'", v)
	}
	if sub.Has("c") {
		t.Error("deleted c still visible")
	}
	if !root.Has("c") {
		t.Error("delete in sub removed c from root")
	}
	if src, _ := sub.Source("b"); src != "root" {
		t.Errorf("b from '%s'", src)
	}
	if keys := sub.Keys(); !slices.Equal(keys, []string{"a", "b"}) {
		t.Errorf("unexpected keys %v", keys)
	}
	sub.Set("c", "30")
	if v, _ := sub.Get("c"); v != "30" {
		t.Errorf("c re-set wrong: '%s'", v)
	}
}

func TestSet_SetPairs(t *testing.T) {
	var s Set
	if err := s.SetPairs("foo", "bar=baz", "url=https://x?a=b"); err != nil {
		t.Fatal(err)
	}
	if v, ok := s.Get("foo"); !ok || v != "" {
		t.Errorf("foo: '%s' %t", v, ok)
	}
	if v, _ := s.Get("url"); v != "https://x?a=b" {
		t.Errorf("url: '%s'", v)
	}
	if err := s.SetPairs("=nokey"); err == nil {
		t.Error("no error for empty key")
	}
}

func TestSet_String_hidesValues(t *testing.T) {
	s := New("file", map[string]string{"spongeSigningPassword": "s3cret"})
	s = s.Sub("flags")
	if str := s.String(); str != "props[flags:0<file:1]" {
		t.Errorf("unexpected string '%s'", str)
	}
}

func ExampleSet_Sub() {
	file := New("file", map[string]string{"maldRepo": "https://file.example"})
	flags := file.Sub("command-line")
	flags.SetPairs("maldRepo=https://flag.example")
	fmt.Println(flags.Get("maldRepo"))
	fmt.Println(file.Get("maldRepo"))
	// Output:
	// https://flag.example true
	// https://file.example true
}
