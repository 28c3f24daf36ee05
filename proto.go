package irrx

// Timing grammars for the supported protocols. All durations are nominal
// microseconds from the published protocol specifications; they are the
// interoperability contract of the decoder and must not be "tuned".
//
// References:
// https://www.sbprojects.net/knowledge/ir/nec.php
// https://www.sbprojects.net/knowledge/ir/sirc.php
// https://www.sbprojects.net/knowledge/ir/rc5.php
// https://www.sbprojects.net/knowledge/ir/rc6.php

// spaceCodedProto describes a protocol whose bits are a fixed active pulse
// followed by an idle pulse whose duration carries the bit value.
type spaceCodedProto struct {
	proto     Protocol
	hdrMark   int
	hdrSpace  int
	bitMark   int
	oneSpace  int
	zeroSpace int
	bits      int
	minLen    int  // smallest buffer worth attempting a full payload on
	rptSpace  int  // 4-entry repeat shape idle pulse; 0 if none
	jvcRepeat bool // repeat recognized by bit marks at fixed offsets
	stopMark  bool // trailing stop pulse required after the payload
}

// markCodedProto describes a protocol whose bits are a fixed idle pulse
// followed by an active pulse whose duration carries the bit value. Frame
// length is variable; decoding continues while the idle pulse repeats.
type markCodedProto struct {
	proto     Protocol
	hdrMark   int
	hdrSpace  int
	oneMark   int
	zeroMark  int
	minBits   int
	minLen    int
	repeatGap uint16 // leading gaps shorter than this many ticks mean repeat
	doubleHdr bool   // header is two consecutive header marks
}

var necProto = spaceCodedProto{
	proto:     NEC,
	hdrMark:   9000,
	hdrSpace:  4500,
	bitMark:   560,
	oneSpace:  1690,
	zeroSpace: 560,
	bits:      32,
	minLen:    2*32 + 4,
	rptSpace:  2250,
}

var samsungProto = spaceCodedProto{
	proto:     Samsung,
	hdrMark:   5000,
	hdrSpace:  5000,
	bitMark:   560,
	oneSpace:  1600,
	zeroSpace: 560,
	bits:      32,
	minLen:    2*32 + 4,
	rptSpace:  2250,
}

var panasonicProto = spaceCodedProto{
	proto:     Panasonic,
	hdrMark:   3502,
	hdrSpace:  1750,
	bitMark:   502,
	oneSpace:  1244,
	zeroSpace: 400,
	bits:      48,
	minLen:    2*48 + 2,
}

var lgProto = spaceCodedProto{
	proto:     LG,
	hdrMark:   8000,
	hdrSpace:  4000,
	bitMark:   600,
	oneSpace:  1600,
	zeroSpace: 550,
	bits:      28,
	minLen:    2*28 + 1,
	stopMark:  true,
}

var jvcProto = spaceCodedProto{
	proto:     JVC,
	hdrMark:   8000,
	hdrSpace:  4000,
	bitMark:   600,
	oneSpace:  1600,
	zeroSpace: 550,
	bits:      16,
	minLen:    2*16 + 1,
	jvcRepeat: true,
	stopMark:  true,
}

var sonyProto = markCodedProto{
	proto:     Sony,
	hdrMark:   2400,
	hdrSpace:  600,
	oneMark:   1200,
	zeroMark:  600,
	minBits:   12,
	minLen:    2*12 + 2,
	repeatGap: 500 / TickUS,
}

var sanyoProto = markCodedProto{
	proto:     Sanyo,
	hdrMark:   3500,
	hdrSpace:  950,
	oneMark:   2400,
	zeroMark:  700,
	minBits:   12,
	minLen:    2*12 + 2,
	repeatGap: 800 / TickUS,
	doubleHdr: true,
}

// Mitsubishi frames carry no active header pulse: the frame opens with a
// short separator and the polarity of the data/separator pairs is inverted
// relative to Sony-style frames. decodeMitsubishi handles the variant.
const (
	mitsubishiHdrSpace = 350
	mitsubishiOneMark  = 1950
	mitsubishiZeroMark = 750
	mitsubishiBits     = 16
	mitsubishiMinLen   = 2*mitsubishiBits + 2
)

// RC5/RC6 level-cursor timing.
const (
	rc5T1      = 889
	rc5MinLen  = 11 + 2
	rc6HdrMark = 2666
	rc6HdrSpc  = 889
	rc6T1      = 444
	rc6MinLen  = 4
	// rc6ToggleBit is double width on the wire and verified as two equal
	// half-widths at this bit index.
	rc6ToggleBit = 3
)
