package types

import (
	"testing"
)

var testKey = []byte("testkey1testkey2")

func newTestGenerator(t *testing.T) *UidGenerator {
	t.Helper()
	ug := &UidGenerator{}
	if err := ug.Init(1, testKey); err != nil {
		t.Fatalf("Failed to initialize generator: %v", err)
	}
	return ug
}

func TestUidGeneratorInitKeyValidation(t *testing.T) {
	cases := []struct {
		name string
		key  []byte
	}{
		{"nil key", nil},
		{"empty key", []byte{}},
		{"15 byte key", []byte("testkey1testkey")},
		{"17 byte key", []byte("testkey1testkey22")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ug := &UidGenerator{}
			if err := ug.Init(1, tc.key); err == nil {
				t.Errorf("Expected error for %s", tc.name)
			}
		})
	}
}

func TestUidGeneratorInitIsIdempotent(t *testing.T) {
	ug := newTestGenerator(t)
	seq, cipher := ug.seq, ug.cipher

	if err := ug.Init(2, testKey); err != nil {
		t.Fatal(err)
	}
	if ug.seq != seq || ug.cipher != cipher {
		t.Error("Generator should not be re-initialized")
	}
}

func TestUidGeneratorUninitialized(t *testing.T) {
	ug := &UidGenerator{}
	if uid := ug.Get(); uid != ZeroUid {
		t.Error("Expected ZeroUid from uninitialized generator, got", uid)
	}
	if str := ug.GetStr(); str != "" {
		t.Error("Expected empty string from uninitialized generator, got", str)
	}
}

func TestUidGeneratorUnique(t *testing.T) {
	ug := newTestGenerator(t)

	seen := make(map[Uid]bool)
	for i := 0; i < 1000; i++ {
		uid := ug.Get()
		if uid.IsZero() {
			t.Fatalf("UID %d is zero", i)
		}
		if seen[uid] {
			t.Fatalf("Duplicate UID generated: %v", uid)
		}
		seen[uid] = true
	}

	str := ug.GetStr()
	if len(str) != uidBase64Unpadded {
		t.Errorf("UID string length %d, want %d", len(str), uidBase64Unpadded)
	}
	if ParseUid(str).IsZero() {
		t.Error("Generated string does not parse back into a UID:", str)
	}
}

func TestUidGeneratorEncodeDecodeRoundtrip(t *testing.T) {
	ug := newTestGenerator(t)

	for _, val := range []int64{0, 1, 42, 12345, 1000000, 9223372036854775807} {
		if got := ug.DecodeUid(ug.EncodeInt64(val)); got != val {
			t.Errorf("Roundtrip failed for %d: got %d", val, got)
		}
	}

	uid := ug.Get()
	decoded := ug.DecodeUid(uid)
	if decoded < 0 {
		t.Errorf("Decoded UID should be non-negative, got %d", decoded)
	}
	if ug.EncodeInt64(decoded) != uid {
		t.Error("Generated UID roundtrip failed")
	}
}

func BenchmarkUidGeneratorGet(b *testing.B) {
	ug := &UidGenerator{}
	if err := ug.Init(1, testKey); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ug.Get()
	}
}
