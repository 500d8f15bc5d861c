package flagcodec_test

import (
	"testing"

	"github.com/azybler/graphstore/pkg/flagcodec"
)

func TestDefaultFlags(t *testing.T) {
	both := flagcodec.DefaultFlags(true)
	if both&flagcodec.Forward == 0 || both&flagcodec.Backward == 0 {
		t.Errorf("DefaultFlags(true) = %b, want both direction bits set", both)
	}
	oneWay := flagcodec.DefaultFlags(false)
	if oneWay&flagcodec.Forward == 0 {
		t.Errorf("DefaultFlags(false) = %b, want forward bit set", oneWay)
	}
	if oneWay&flagcodec.Backward != 0 {
		t.Errorf("DefaultFlags(false) = %b, want backward bit clear", oneWay)
	}
}

func TestSwapDirectionInvolution(t *testing.T) {
	cases := []int32{
		flagcodec.DefaultFlags(true),
		flagcodec.DefaultFlags(false),
		flagcodec.Backward,
		0,
	}
	for _, f := range cases {
		if got := flagcodec.SwapDirection(flagcodec.SwapDirection(f)); got != f {
			t.Errorf("SwapDirection(SwapDirection(%b)) = %b, want %b", f, got, f)
		}
	}
}

func TestSwapDirectionOneWay(t *testing.T) {
	fwdOnly := flagcodec.DefaultFlags(false)
	swapped := flagcodec.SwapDirection(fwdOnly)
	if swapped&flagcodec.Forward != 0 {
		t.Errorf("swapped forward-only edge still has forward bit: %b", swapped)
	}
	if swapped&flagcodec.Backward == 0 {
		t.Errorf("swapped forward-only edge missing backward bit: %b", swapped)
	}
}

func TestSwapDirectionPreservesHigherBits(t *testing.T) {
	f := flagcodec.DefaultFlags(true) | (1 << 4)
	swapped := flagcodec.SwapDirection(f)
	if swapped&(1<<4) == 0 {
		t.Errorf("SwapDirection dropped an access-class bit: %b", swapped)
	}
}

func TestFingerprintStable(t *testing.T) {
	if flagcodec.Fingerprint() != flagcodec.Fingerprint() {
		t.Fatal("Fingerprint must be stable across calls")
	}
}
