package credential

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"testing"
)

func testMap() Map {
	m := make(Map)
	m.Put(New("GitHub", "alice@example.com", "KRSXG5CTMVRXEZLUKN2XAZLSKNSWG4TFOQ"))
	m.Put(Credential{
		ID:        "Näme✓",
		Name:      "Näme✓",
		Secret:    rfcSecretSHA512,
		Algorithm: SHA512,
		Digits:    8,
		Period:    60,
		Icon:      "https://example.com/icon.png",
	})
	return m
}

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []Map{
		{},
		testMap(),
	}

	for i, want := range tests {
		got, err := Decode(Encode(want))
		if err != nil {
			t.Fatalf("%d) %v", i, err)
		}
		if !reflect.DeepEqual(want, got) {
			t.Errorf("%d) want: %#v\ngot: %#v", i, want, got)
		}
	}
}

func TestCodecDeterministic(t *testing.T) {
	t.Parallel()

	if !bytes.Equal(Encode(testMap()), Encode(testMap())) {
		t.Error("encoding should not depend on map order")
	}
}

func TestCodecLayout(t *testing.T) {
	t.Parallel()

	m := make(Map)
	m.Put(Credential{ID: "ab", Issuer: "a", Secret: "S", Name: "b", Algorithm: SHA256, Digits: 6, Period: 30})

	var want []byte
	str := func(s string) {
		want = binary.LittleEndian.AppendUint64(want, uint64(len(s)))
		want = append(want, s...)
	}
	want = binary.LittleEndian.AppendUint64(want, 1)
	str("ab")
	str("ab")
	str("a")
	str("S")
	str("b")
	want = binary.LittleEndian.AppendUint32(want, 1)
	want = binary.LittleEndian.AppendUint64(want, 6)
	want = binary.LittleEndian.AppendUint64(want, 30)
	str("")

	if got := Encode(m); !bytes.Equal(want, got) {
		t.Errorf("layout was wrong:\nwant: %x\ngot:  %x", want, got)
	}
}

func TestDecodeTruncated(t *testing.T) {
	t.Parallel()

	data := Encode(testMap())
	for i := 0; i < len(data); i++ {
		_, err := Decode(data[:i])
		if err == nil {
			t.Fatalf("truncated at %d should fail", i)
		}
		if !IsDecodeError(err) {
			t.Fatalf("truncated at %d wrong error type: %T", i, err)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	t.Parallel()

	good := Encode(testMap())

	hugeCount := make([]byte, 8)
	binary.LittleEndian.PutUint64(hugeCount, 1<<62)

	hugeString := binary.LittleEndian.AppendUint64(nil, 1)
	hugeString = binary.LittleEndian.AppendUint64(hugeString, 1<<63)
	hugeString = append(hugeString, make([]byte, minEntrySize)...)

	badAlg := make(Map)
	badAlg.Put(New("a", "b", "S"))
	badAlgData := Encode(badAlg)
	// algorithm sits right after the five strings
	algOffset := 8 + 5*strHeader + len("ab") + len("ab") + len("a") + len("S") + len("b")
	binary.LittleEndian.PutUint32(badAlgData[algOffset:], 7)

	badUTF8 := make(Map)
	badUTF8.Put(New("a", "b", "S"))
	badUTF8Data := Encode(badUTF8)
	// first byte of the key string
	badUTF8Data[8+strHeader] = 0xff

	tests := []struct {
		Name string
		Data []byte
	}{
		{"Empty", nil},
		{"HugeCount", hugeCount},
		{"HugeString", hugeString},
		{"Trailing", append(append([]byte{}, good...), 0)},
		{"Algorithm", badAlgData},
		{"UTF8", badUTF8Data},
	}

	for _, test := range tests {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			t.Parallel()

			m, err := Decode(test.Data)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !IsDecodeError(err) {
				t.Errorf("wrong error type %T: %v", err, err)
			}
			if m != nil {
				t.Error("map should be nil on error")
			}
		})
	}
}
