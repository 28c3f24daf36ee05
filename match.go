package irrx

// tolerancePct is the proportional matching tolerance applied to every
// duration comparison.
const tolerancePct = 20

// matchTicks reports whether a measured duration of m ticks falls within
// ±tolerancePct of a nominal duration of d microseconds. The comparison is
// integer-exact and both band edges are inclusive:
//
//	0.8*d <= m*TickUS <= 1.2*d
func matchTicks(m uint16, d int) bool {
	us := 100 * int(m) * TickUS
	return us >= (100-tolerancePct)*d && us <= (100+tolerancePct)*d
}

// matchMark matches a measured active pulse against a nominal duration.
// Received marks measure about markExcessUS long due to receiver lag, so
// the nominal is stretched by that much before the band test.
func matchMark(m uint16, d int) bool {
	return matchTicks(m, d+markExcessUS)
}

// matchSpace is the idle-pulse counterpart: received spaces measure short
// by the same amount.
func matchSpace(m uint16, d int) bool {
	return matchTicks(m, d-markExcessUS)
}
