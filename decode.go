package irrx

// The decode engine. Matchers are tried in a fixed order and the first
// success wins; two grammars with overlapping timing windows are settled by
// chain position. The hash fallback accepts nearly anything, so it is last.
var matchers = []struct {
	proto Protocol
	fn    func(*Receiver) (Code, bool)
}{
	{NEC, func(r *Receiver) (Code, bool) { return r.decodeSpaceCoded(&necProto) }},
	{Sony, func(r *Receiver) (Code, bool) { return r.decodeMarkCoded(&sonyProto) }},
	{Sanyo, func(r *Receiver) (Code, bool) { return r.decodeMarkCoded(&sanyoProto) }},
	{Mitsubishi, (*Receiver).decodeMitsubishi},
	{RC5, (*Receiver).decodeRC5},
	{RC6, (*Receiver).decodeRC6},
	{Panasonic, func(r *Receiver) (Code, bool) { return r.decodeSpaceCoded(&panasonicProto) }},
	{LG, func(r *Receiver) (Code, bool) { return r.decodeSpaceCoded(&lgProto) }},
	{JVC, func(r *Receiver) (Code, bool) { return r.decodeSpaceCoded(&jvcProto) }},
	{Samsung, func(r *Receiver) (Code, bool) { return r.decodeSpaceCoded(&samsungProto) }},
	{Unknown, (*Receiver).decodeHash},
}

// Decode interprets the pending frame as one of the known protocols, or as
// a hash fingerprint if none match. It reports false when no frame is ready
// or the frame is too short for any interpretation.
//
// Decode never touches the capture state: the frame stays pending, repeated
// calls return the identical code, and the caller resets when done. Each
// matcher only reads the buffer, so a failed attempt leaves nothing behind
// for the next one.
func (r *Receiver) Decode() (Code, bool) {
	if !r.Ready() {
		return Code{}, false
	}
	for _, m := range matchers {
		if r.trace != nil {
			r.trace.Enter(m.proto)
		}
		if c, ok := m.fn(r); ok {
			if r.trace != nil {
				r.trace.Accept(c)
			}
			return c, true
		}
		if r.trace != nil {
			r.trace.Reject(m.proto)
		}
	}
	return Code{}, false
}

func repeatCode(p Protocol) Code {
	return Code{Proto: p, Value: Repeat, IsRepeat: true}
}

// decodeSpaceCoded matches the fixed-length space-duration-coded grammars:
// header mark and space, then bits as a fixed mark followed by a one- or
// zero-length space, MSB first.
func (r *Receiver) decodeSpaceCoded(p *spaceCodedProto) (Code, bool) {
	// JVC repeats drop the header: just bit marks at both ends of a
	// fixed-length frame.
	if p.jvcRepeat && r.rawLen == 2*p.bits+2 &&
		matchMark(r.raw[1], p.bitMark) &&
		matchMark(r.raw[r.rawLen-1], p.bitMark) {
		return repeatCode(p.proto), true
	}
	if !matchMark(r.raw[1], p.hdrMark) {
		return Code{}, false
	}
	// NEC-style repeat: header mark, short space, one bit mark, nothing else
	if p.rptSpace > 0 && r.rawLen == 4 &&
		matchSpace(r.raw[2], p.rptSpace) &&
		matchMark(r.raw[3], p.bitMark) {
		return repeatCode(p.proto), true
	}
	if r.rawLen < p.minLen {
		return Code{}, false
	}
	if !matchSpace(r.raw[2], p.hdrSpace) {
		return Code{}, false
	}
	var data uint64
	offset := 3
	for i := 0; i < p.bits; i++ {
		if !matchMark(r.raw[offset], p.bitMark) {
			return Code{}, false
		}
		offset++
		switch {
		case matchSpace(r.raw[offset], p.oneSpace):
			data = data<<1 | 1
		case matchSpace(r.raw[offset], p.zeroSpace):
			data <<= 1
		default:
			return Code{}, false
		}
		offset++
	}
	if p.stopMark && !matchMark(r.raw[offset], p.bitMark) {
		return Code{}, false
	}
	return Code{Proto: p.proto, Value: data, Bits: p.bits}, true
}

// decodeMarkCoded matches the variable-length mark-duration-coded grammars:
// header mark(s), then bits as the header space followed by a one- or
// zero-length mark. The bit loop runs until the header space stops
// repeating or the buffer ends.
func (r *Receiver) decodeMarkCoded(p *markCodedProto) (Code, bool) {
	if r.rawLen < p.minLen {
		return Code{}, false
	}
	// a gap too short to be a frame boundary means the previous frame is
	// being repeated back-to-back
	if r.raw[0] < p.repeatGap {
		return repeatCode(p.proto), true
	}
	offset := 1
	if !matchMark(r.raw[offset], p.hdrMark) {
		return Code{}, false
	}
	offset++
	if p.doubleHdr {
		if !matchMark(r.raw[offset], p.hdrMark) {
			return Code{}, false
		}
		offset++
	}
	var data uint64
	for offset+1 < r.rawLen {
		if !matchSpace(r.raw[offset], p.hdrSpace) {
			break
		}
		offset++
		switch {
		case matchMark(r.raw[offset], p.oneMark):
			data = data<<1 | 1
		case matchMark(r.raw[offset], p.zeroMark):
			data <<= 1
		default:
			return Code{}, false
		}
		offset++
	}
	bits := (offset - 1) / 2
	if bits < p.minBits {
		return Code{}, false
	}
	return Code{Proto: p.proto, Value: data, Bits: bits}, true
}

// decodeMitsubishi handles the inverted variant: the header is an idle
// pulse, data pulses land on idle-level buffer slots, and the bit loop ends
// on a separator mismatch instead of a bad bit.
func (r *Receiver) decodeMitsubishi() (Code, bool) {
	if r.rawLen < mitsubishiMinLen {
		return Code{}, false
	}
	offset := 1
	if !matchMark(r.raw[offset], mitsubishiHdrSpace) {
		return Code{}, false
	}
	offset++
	var data uint64
	for offset+1 < r.rawLen {
		switch {
		case matchMark(r.raw[offset], mitsubishiOneMark):
			data = data<<1 | 1
		case matchMark(r.raw[offset], mitsubishiZeroMark):
			data <<= 1
		default:
			return Code{}, false
		}
		offset++
		if !matchSpace(r.raw[offset], mitsubishiHdrSpace) {
			break
		}
		offset++
	}
	bits := (offset - 1) / 2
	if bits < mitsubishiBits {
		return Code{}, false
	}
	return Code{Proto: Mitsubishi, Value: data, Bits: bits}, true
}

// Level values handed out by the RC5/RC6 cursor.
const (
	levelErr = iota - 1
	levelSpace
	levelMark
)

// rcCursor walks the duration buffer in units of a protocol's half-bit
// time T1. A recorded duration may span 1, 2 or 3 quanta; the cursor hands
// them out one half-bit at a time and only advances to the next buffer
// entry once its quanta are used up. Past the end of the buffer it reports
// idle, since a frame's trailing idle is never recorded.
type rcCursor struct {
	r      *Receiver
	offset int
	used   int
	t1     int
}

func (c *rcCursor) next() int {
	if c.offset >= c.r.rawLen {
		return levelSpace
	}
	width := c.r.raw[c.offset]
	val, corr := levelSpace, -markExcessUS
	if c.offset%2 == 1 {
		val, corr = levelMark, markExcessUS
	}
	var avail int
	switch {
	case matchTicks(width, c.t1+corr):
		avail = 1
	case matchTicks(width, 2*c.t1+corr):
		avail = 2
	case matchTicks(width, 3*c.t1+corr):
		avail = 3
	default:
		return levelErr
	}
	c.used++
	if c.used >= avail {
		c.used = 0
		c.offset++
	}
	return val
}

// decodeRC5 reads the biphase RC5 grammar: three start half-bits, then each
// bit as a pair of half-bit levels, (space,mark) carrying a one.
func (r *Receiver) decodeRC5() (Code, bool) {
	if r.rawLen < rc5MinLen {
		return Code{}, false
	}
	cur := rcCursor{r: r, offset: 1, t1: rc5T1}
	if cur.next() != levelMark || cur.next() != levelSpace || cur.next() != levelMark {
		return Code{}, false
	}
	var data uint64
	bits := 0
	for ; cur.offset < r.rawLen; bits++ {
		a, b := cur.next(), cur.next()
		switch {
		case a == levelSpace && b == levelMark:
			data = data<<1 | 1
		case a == levelMark && b == levelSpace:
			data <<= 1
		default:
			return Code{}, false
		}
	}
	return Code{Proto: RC5, Value: data, Bits: bits}, true
}

// decodeRC6 reads RC6: a header mark and space, a start bit, then biphase
// bits with the level order reversed relative to RC5. The toggle bit is
// double width; both of its half-bits are read twice and must agree.
func (r *Receiver) decodeRC6() (Code, bool) {
	if r.rawLen < rc6MinLen {
		return Code{}, false
	}
	if !matchMark(r.raw[1], rc6HdrMark) || !matchSpace(r.raw[2], rc6HdrSpc) {
		return Code{}, false
	}
	cur := rcCursor{r: r, offset: 3, t1: rc6T1}
	if cur.next() != levelMark || cur.next() != levelSpace {
		return Code{}, false
	}
	var data uint64
	bits := 0
	for ; cur.offset < r.rawLen; bits++ {
		a := cur.next()
		if bits == rc6ToggleBit && a != cur.next() {
			return Code{}, false
		}
		b := cur.next()
		if bits == rc6ToggleBit && b != cur.next() {
			return Code{}, false
		}
		switch {
		case a == levelMark && b == levelSpace:
			data = data<<1 | 1
		case a == levelSpace && b == levelMark:
			data <<= 1
		default:
			return Code{}, false
		}
	}
	return Code{Proto: RC6, Value: data, Bits: bits}, true
}

// FNV-1 parameters, http://isthe.com/chongo/tech/comp/fnv/
const (
	fnvPrime32 = 16777619
	fnvBasis32 = 2166136261
)

// compareTicks classifies the newer of two same-level durations against the
// older: shorter, equal or longer, with the same 20% band used everywhere.
func compareTicks(oldv, newv uint16) uint32 {
	switch {
	case 100*int(newv) < (100-tolerancePct)*int(oldv):
		return 0 // shorter
	case 100*int(oldv) < (100-tolerancePct)*int(newv):
		return 2 // longer
	default:
		return 1 // equal
	}
}

// decodeHash fingerprints a frame no grammar claimed. Each duration is
// classed against the previous duration of the same level (stride 2) and
// the classes are folded with FNV-1. Not a real decode, but stable per
// button for most unknown remotes. Frames under 6 entries are noise and are
// rejected outright.
func (r *Receiver) decodeHash() (Code, bool) {
	if r.rawLen < 6 {
		return Code{}, false
	}
	hash := uint32(fnvBasis32)
	for i := 1; i+2 < r.rawLen; i++ {
		hash = hash*fnvPrime32 ^ compareTicks(r.raw[i], r.raw[i+2])
	}
	return Code{Proto: Unknown, Value: uint64(hash), Bits: 32}, true
}
