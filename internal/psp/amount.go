package psp

// Providers bill in minor units (kobo). The public API of this package deals
// in major units (naira); conversion happens at the wire boundary only.

func toKobo(naira int64) int64 {
	return naira * 100
}

// fromKobo truncates toward zero: sub-naira remainders are dropped, so the
// round trip is lossless only for whole-naira amounts.
func fromKobo(kobo int64) int64 {
	return kobo / 100
}
