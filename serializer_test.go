package anytext

import (
	"reflect"
	"testing"

	"github.com/unixpickle/serializer"
)

func TestAlphabetSerialize(t *testing.T) {
	a1, err := NewAlphabet("abc \n", '\x00')
	if err != nil {
		t.Fatal(err)
	}
	a2, err := InferAlphabet("ünïcödé ünïcödé", 2, '?')
	if err != nil {
		t.Fatal(err)
	}
	data, err := serializer.SerializeAny(a1, a2)
	if err != nil {
		t.Fatal(err)
	}
	var newA1, newA2 *Alphabet
	if err := serializer.DeserializeAny(data, &newA1, &newA2); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a1, newA1) {
		t.Error("first alphabet failed")
	}
	if !reflect.DeepEqual(a2, newA2) {
		t.Error("second alphabet failed")
	}
}

func TestDeserializeAlphabetInvalid(t *testing.T) {
	data, err := serializer.SerializeAny("ab?", int('?'))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DeserializeAlphabet(data); err == nil {
		t.Error("expected error for unknown symbol in alphabet")
	}
}
