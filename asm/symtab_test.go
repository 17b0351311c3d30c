package asm

import "testing"

func TestSymbolTableSetGet(t *testing.T) {
	st := NewSymbolTable()
	if _, ok := st.Get("foo"); ok {
		t.Fatal("expected foo to be absent initially")
	}
	st.Set("foo", 42)
	v, ok := st.Get("foo")
	if !ok || v != 42 {
		t.Fatalf("expected foo=42, got %d, %v", v, ok)
	}
}

func TestSymbolTableUnresolvedThenResolved(t *testing.T) {
	st := NewSymbolTable()
	st.SetUnresolved("bar")
	if !st.Contains("bar") {
		t.Fatal("expected bar to be marked as declared")
	}
	if _, ok := st.Get("bar"); ok {
		t.Fatal("expected bar to have no concrete value yet")
	}
	st.Set("bar", 7)
	v, ok := st.Get("bar")
	if !ok || v != 7 {
		t.Fatalf("expected bar=7 after Set, got %d, %v", v, ok)
	}
}

func TestSymbolTableSetUnresolvedDoesNotClobberExisting(t *testing.T) {
	st := NewSymbolTable()
	st.Set("baz", 9)
	st.SetUnresolved("baz")
	v, ok := st.Get("baz")
	if !ok || v != 9 {
		t.Fatalf("expected baz to retain its value 9, got %d, %v", v, ok)
	}
}

func TestLocalLabelTableForwardBackward(t *testing.T) {
	lt := NewLocalLabelTable()
	lt.Define("1", 10)
	lt.Define("1", 30)
	lt.Define("1", 50)

	if v, ok := lt.Forward("1", 10); !ok || v != 30 {
		t.Fatalf("expected forward from 10 to find 30, got %d, %v", v, ok)
	}
	if v, ok := lt.Backward("1", 30); !ok || v != 30 {
		t.Fatalf("expected backward from 30 to find 30 (self), got %d, %v", v, ok)
	}
	if v, ok := lt.Backward("1", 29); !ok || v != 10 {
		t.Fatalf("expected backward from 29 to find 10, got %d, %v", v, ok)
	}
	if _, ok := lt.Forward("1", 50); ok {
		t.Fatal("expected no forward definition past the last one")
	}
}
