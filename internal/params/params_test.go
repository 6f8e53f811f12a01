package params_test

import (
	"bytes"
	"testing"

	"github.com/MuriData/ads-accumulator/internal/params"
	"github.com/MuriData/ads-accumulator/internal/paramsgen"
)

func genTestParams(t *testing.T, n int) *bytes.Buffer {
	t.Helper()
	buf, err := paramsgen.Generate(n)
	if err != nil {
		t.Fatalf("paramsgen.Generate: %v", err)
	}
	return buf
}

func TestInitializeAndQuery(t *testing.T) {
	params.ResetForTest()
	defer params.ResetForTest()

	buf := genTestParams(t, 20)
	if err := params.Initialize(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !params.Initialized() {
		t.Fatalf("Initialized() = false after Initialize")
	}

	deg, err := params.MaxDegree()
	if err != nil {
		t.Fatalf("MaxDegree: %v", err)
	}
	if deg != 20 {
		t.Fatalf("MaxDegree = %d, want 20", deg)
	}

	if _, err := params.G1Pow(20); err != nil {
		t.Fatalf("G1Pow(20): %v", err)
	}
	if _, err := params.G1Pow(21); err == nil {
		t.Fatalf("G1Pow(21) should fail, N=20")
	}
}

func TestInitializeIdempotent(t *testing.T) {
	params.ResetForTest()
	defer params.ResetForTest()

	buf := genTestParams(t, 10)
	b1 := bytes.NewReader(buf.Bytes())
	b2 := bytes.NewReader(buf.Bytes())

	if err := params.Initialize(b1); err != nil {
		t.Fatalf("first Initialize: %v", err)
	}
	if err := params.Initialize(b2); err != nil {
		t.Fatalf("second Initialize with identical params should be a no-op, got: %v", err)
	}
}

func TestInitializeConflictingFingerprint(t *testing.T) {
	params.ResetForTest()
	defer params.ResetForTest()

	buf1 := genTestParams(t, 10)
	buf2 := genTestParams(t, 12)

	if err := params.Initialize(bytes.NewReader(buf1.Bytes())); err != nil {
		t.Fatalf("first Initialize: %v", err)
	}
	if err := params.Initialize(bytes.NewReader(buf2.Bytes())); err == nil {
		t.Fatalf("second Initialize with a different fingerprint should fail")
	}
}

func TestUninitializedAccess(t *testing.T) {
	params.ResetForTest()
	if params.Initialized() {
		t.Fatalf("Initialized() = true before any Initialize call")
	}
	if _, err := params.G1Pow(0); err == nil {
		t.Fatalf("G1Pow should fail before initialization")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	buf := genTestParams(t, 8)
	store, err := params.LoadStore(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("LoadStore: %v", err)
	}

	var out bytes.Buffer
	if err := store.Serialize(&out); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), out.Bytes()) {
		t.Fatalf("round-tripped serialization is not byte-identical")
	}
}
