package irrx

import "testing"

// inject loads a captured frame directly and marks it Ready. Entries are
// tick counts; entry 0 is the leading gap.
func inject(r *Receiver, ticks ...uint16) {
	copy(r.raw[:], ticks)
	r.rawLen = len(ticks)
	r.state = stateReady
}

func testReceiver() *Receiver {
	return New(func() bool { return false })
}

// necFrame builds a canonical NEC frame: 9ms header mark, 4.5ms header
// space, then 32 bits of 560µs marks with 1690µs/560µs spaces, stop mark.
func necFrame(value uint32) []uint16 {
	f := []uint16{gapTicks, 180, 90}
	for i := 31; i >= 0; i-- {
		f = append(f, 13)
		if value&(1<<uint(i)) != 0 {
			f = append(f, 32)
		} else {
			f = append(f, 9)
		}
	}
	return append(f, 13)
}

func TestDecodeNEC(t *testing.T) {
	r := testReceiver()
	inject(r, necFrame(0x20DF10EF)...)
	code, ok := r.Decode()
	if !ok {
		t.Fatal("canonical NEC frame did not decode")
	}
	if code.Proto != NEC || code.Value != 0x20DF10EF || code.Bits != 32 || code.IsRepeat {
		t.Fatalf("got %+v", code)
	}
}

func TestDecodeNECRepeat(t *testing.T) {
	r := testReceiver()
	// leave a full frame's stale data behind the 4 live entries
	inject(r, necFrame(0x20DF10EF)...)
	inject(r, gapTicks, 180, 45, 13)
	code, ok := r.Decode()
	if !ok {
		t.Fatal("NEC repeat frame did not decode")
	}
	if code.Proto != NEC || !code.IsRepeat || code.Bits != 0 || code.Value != Repeat {
		t.Fatalf("got %+v", code)
	}
}

func TestDecodeIdempotent(t *testing.T) {
	r := testReceiver()
	inject(r, necFrame(0x00FF00FF)...)
	first, ok := r.Decode()
	if !ok {
		t.Fatal("frame did not decode")
	}
	second, ok := r.Decode()
	if !ok || first != second {
		t.Fatalf("repeated decode differed: %+v vs %+v", first, second)
	}
	if !r.Ready() {
		t.Fatal("Decode consumed the frame")
	}
}

func TestDecodeNotReady(t *testing.T) {
	r := testReceiver()
	if _, ok := r.Decode(); ok {
		t.Fatal("decoded without a frame")
	}
}

func sonyFrame(value uint64, nbits int) []uint16 {
	f := []uint16{gapTicks, 48}
	for i := nbits - 1; i >= 0; i-- {
		f = append(f, 12)
		if value&(1<<uint(i)) != 0 {
			f = append(f, 24)
		} else {
			f = append(f, 12)
		}
	}
	return f
}

func TestDecodeSony(t *testing.T) {
	r := testReceiver()
	inject(r, sonyFrame(0xA90, 12)...)
	code, ok := r.Decode()
	if !ok {
		t.Fatal("Sony frame did not decode")
	}
	if code.Proto != Sony || code.Value != 0xA90 || code.Bits != 12 {
		t.Fatalf("got %+v", code)
	}
}

func TestDecodeSonyShortGapRepeat(t *testing.T) {
	r := testReceiver()
	f := sonyFrame(0xA90, 12)
	f[0] = 5 // back-to-back retransmission, gap below the repeat threshold
	inject(r, f...)
	code, ok := r.Decode()
	if !ok || code.Proto != Sony || !code.IsRepeat {
		t.Fatalf("got %+v ok=%v, want Sony repeat", code, ok)
	}
}

func TestDecodeSanyo(t *testing.T) {
	r := testReceiver()
	f := []uint16{gapTicks, 70, 70} // doubled header mark
	value := uint64(0x5A3)
	for i := 11; i >= 0; i-- {
		f = append(f, 19)
		if value&(1<<uint(i)) != 0 {
			f = append(f, 48)
		} else {
			f = append(f, 14)
		}
	}
	inject(r, f...)
	code, ok := r.Decode()
	if !ok {
		t.Fatal("Sanyo frame did not decode")
	}
	if code.Proto != Sanyo || code.Value != value {
		t.Fatalf("got %+v", code)
	}
}

func TestDecodeMitsubishi(t *testing.T) {
	r := testReceiver()
	f := []uint16{gapTicks, 9}
	value := uint64(0x59A6)
	for i := 15; i >= 0; i-- {
		if value&(1<<uint(i)) != 0 {
			f = append(f, 40)
		} else {
			f = append(f, 16)
		}
		f = append(f, 5)
	}
	inject(r, f...)
	code, ok := r.Decode()
	if !ok {
		t.Fatal("Mitsubishi frame did not decode")
	}
	if code.Proto != Mitsubishi || code.Value != value || code.Bits != 16 {
		t.Fatalf("got %+v", code)
	}
}

// rcFrame run-length encodes a half-bit level sequence into buffer entries.
// Widths are indexed by run length (1..3 quanta), marks and spaces
// separately since the lag correction differs.
func rcFrame(head []uint16, halfs []bool, markT, spaceT []uint16) []uint16 {
	f := head
	for i := 0; i < len(halfs); {
		j := i
		for j < len(halfs) && halfs[j] == halfs[i] {
			j++
		}
		if halfs[i] {
			f = append(f, markT[j-i])
		} else if j < len(halfs) {
			f = append(f, spaceT[j-i]) // trailing idle is never recorded
		}
		i = j
	}
	return f
}

func TestDecodeRC5(t *testing.T) {
	r := testReceiver()
	value := uint64(0x595)
	halfs := []bool{true, false, true} // start bits
	for i := 10; i >= 0; i-- {
		if value&(1<<uint(i)) != 0 {
			halfs = append(halfs, false, true)
		} else {
			halfs = append(halfs, true, false)
		}
	}
	f := rcFrame([]uint16{gapTicks}, halfs,
		[]uint16{0, 20, 38, 55}, []uint16{0, 16, 34, 51})
	inject(r, f...)
	code, ok := r.Decode()
	if !ok {
		t.Fatal("RC5 frame did not decode")
	}
	if code.Proto != RC5 || code.Value != value || code.Bits != 11 {
		t.Fatalf("got %+v", code)
	}
}

func TestDecodeRC6(t *testing.T) {
	r := testReceiver()
	value := uint64(0x8A5)
	nbits := 12
	halfs := []bool{true, false} // start bit
	for i := nbits - 1; i >= 0; i-- {
		a, b := false, true
		if value&(1<<uint(i)) != 0 {
			a, b = true, false
		}
		if nbits-1-i == rc6ToggleBit {
			// toggle bit is double width
			halfs = append(halfs, a, a, b, b)
		} else {
			halfs = append(halfs, a, b)
		}
	}
	f := rcFrame([]uint16{gapTicks, 53, 16}, halfs,
		[]uint16{0, 11, 20, 29}, []uint16{0, 7, 16, 25})
	inject(r, f...)
	code, ok := r.Decode()
	if !ok {
		t.Fatal("RC6 frame did not decode")
	}
	if code.Proto != RC6 || code.Value != value || code.Bits != nbits {
		t.Fatalf("got %+v", code)
	}
}

func TestDecodePanasonic(t *testing.T) {
	r := testReceiver()
	value := uint64(0x40040100BCBD)
	f := []uint16{gapTicks, 70, 35}
	for i := 47; i >= 0; i-- {
		f = append(f, 12)
		if value&(1<<uint(i)) != 0 {
			f = append(f, 24)
		} else {
			f = append(f, 6)
		}
	}
	inject(r, f...)
	code, ok := r.Decode()
	if !ok {
		t.Fatal("Panasonic frame did not decode")
	}
	if code.Proto != Panasonic || code.Value != value || code.Bits != 48 {
		t.Fatalf("got %+v", code)
	}
	if code.Address() != 0x4004 || code.Command() != 0x0100BCBD {
		t.Fatalf("split = %#x/%#x", code.Address(), code.Command())
	}
}

func lgStyleFrame(value uint64, nbits int) []uint16 {
	f := []uint16{gapTicks, 160, 78}
	for i := nbits - 1; i >= 0; i-- {
		f = append(f, 13)
		if value&(1<<uint(i)) != 0 {
			f = append(f, 30)
		} else {
			f = append(f, 9)
		}
	}
	return append(f, 13)
}

func TestDecodeLG(t *testing.T) {
	r := testReceiver()
	inject(r, lgStyleFrame(0xABC1234, 28)...)
	code, ok := r.Decode()
	if !ok {
		t.Fatal("LG frame did not decode")
	}
	if code.Proto != LG || code.Value != 0xABC1234 || code.Bits != 28 {
		t.Fatalf("got %+v", code)
	}
}

func TestDecodeJVC(t *testing.T) {
	r := testReceiver()
	inject(r, lgStyleFrame(0xC5A8, 16)...)
	code, ok := r.Decode()
	if !ok {
		t.Fatal("JVC frame did not decode")
	}
	if code.Proto != JVC || code.Value != 0xC5A8 || code.Bits != 16 {
		t.Fatalf("got %+v", code)
	}
}

func TestDecodeJVCRepeat(t *testing.T) {
	r := testReceiver()
	// bit marks bracketing a 34-entry frame, no header
	f := make([]uint16, 34)
	f[0] = gapTicks
	for i := 1; i < 34; i++ {
		if i%2 == 1 {
			f[i] = 13
		} else {
			f[i] = 9
		}
	}
	inject(r, f...)
	code, ok := r.Decode()
	if !ok || code.Proto != JVC || !code.IsRepeat {
		t.Fatalf("got %+v ok=%v, want JVC repeat", code, ok)
	}
}

func TestDecodeSamsung(t *testing.T) {
	r := testReceiver()
	value := uint64(0xE0E040BF)
	f := []uint16{gapTicks, 90, 90}
	for i := 31; i >= 0; i-- {
		f = append(f, 13)
		if value&(1<<uint(i)) != 0 {
			f = append(f, 30)
		} else {
			f = append(f, 9)
		}
	}
	f = append(f, 13)
	inject(r, f...)
	code, ok := r.Decode()
	if !ok {
		t.Fatal("Samsung frame did not decode")
	}
	if code.Proto != Samsung || code.Value != value || code.Bits != 32 {
		t.Fatalf("got %+v", code)
	}
}

func TestDecodeSamsungRepeat(t *testing.T) {
	r := testReceiver()
	inject(r, gapTicks, 90, 45, 13)
	code, ok := r.Decode()
	if !ok || code.Proto != Samsung || !code.IsRepeat {
		t.Fatalf("got %+v ok=%v, want Samsung repeat", code, ok)
	}
}

func TestDecodeHash(t *testing.T) {
	r := testReceiver()
	frame := []uint16{gapTicks, 20, 40, 20, 40, 20, 40}
	inject(r, frame...)
	first, ok := r.Decode()
	if !ok {
		t.Fatal("hash fallback did not fire")
	}
	if first.Proto != Unknown || first.Bits != 32 {
		t.Fatalf("got %+v", first)
	}

	// identical content hashes identically
	inject(r, frame...)
	again, _ := r.Decode()
	if again.Value != first.Value {
		t.Fatalf("hash not deterministic: %#x vs %#x", again.Value, first.Value)
	}

	// flipping one duration's stride-2 class changes the hash
	frame[3] = 40
	inject(r, frame...)
	changed, ok := r.Decode()
	if !ok {
		t.Fatal("altered frame did not decode")
	}
	if changed.Value == first.Value {
		t.Fatal("hash insensitive to a class flip")
	}
}

func TestDecodeTooShort(t *testing.T) {
	r := testReceiver()
	inject(r, gapTicks, 20, 30, 20)
	if _, ok := r.Decode(); ok {
		t.Fatal("4-entry frame decoded; want total failure")
	}
	// the frame is still pending; Poll is responsible for discarding it
	if !r.Ready() {
		t.Fatal("Decode touched the capture state")
	}
}

type traceRecorder struct {
	enters, rejects, accepts int
}

func (t *traceRecorder) Enter(Protocol)  { t.enters++ }
func (t *traceRecorder) Reject(Protocol) { t.rejects++ }
func (t *traceRecorder) Accept(Code)     { t.accepts++ }

func TestTraceHooks(t *testing.T) {
	r := testReceiver()
	tr := &traceRecorder{}
	r.SetTrace(tr)

	inject(r, necFrame(0x1)...)
	r.Decode()
	if tr.enters != 1 || tr.accepts != 1 || tr.rejects != 0 {
		t.Fatalf("NEC trace: %+v", tr)
	}

	*tr = traceRecorder{}
	inject(r, gapTicks, 20, 40, 20, 40, 20, 40)
	r.Decode()
	if tr.enters != len(matchers) || tr.accepts != 1 || tr.rejects != len(matchers)-1 {
		t.Fatalf("hash trace: %+v", tr)
	}
}

func TestSplitNEC(t *testing.T) {
	addr, cmd, ok := SplitNEC(0x04FB08F7)
	if !ok || addr != 0x04 || cmd != 0x08 {
		t.Fatalf("got addr=%#x cmd=%#x ok=%v", addr, cmd, ok)
	}
	if _, _, ok := SplitNEC(0x04FB0811); ok {
		t.Fatal("corrupt command validated")
	}
	// extended NEC: second byte is a real address byte, not the inverse
	addr, _, ok = SplitNEC(0x040508F7)
	if !ok || addr != 0x0405 {
		t.Fatalf("extended addr = %#x ok=%v", addr, ok)
	}
}
