package csg

// TorxDims holds the nominal drive dimensions for a torx size, in mm.
type TorxDims struct {
	Outer      float64 // point-to-point diameter (A)
	Inner      float64 // lobe root diameter (B)
	LobeRadius float64 // external lobe tip radius (re)
	RootRadius float64 // internal fillet radius (ri)
}

// torxTable holds nominal drive dimensions after ISO 10664.
var torxTable = map[int]TorxDims{
	6:  {Outer: 1.75, Inner: 1.27, LobeRadius: 0.132, RootRadius: 0.383},
	8:  {Outer: 2.40, Inner: 1.75, LobeRadius: 0.180, RootRadius: 0.508},
	10: {Outer: 2.80, Inner: 2.05, LobeRadius: 0.230, RootRadius: 0.609},
	15: {Outer: 3.35, Inner: 2.40, LobeRadius: 0.210, RootRadius: 0.711},
	20: {Outer: 3.95, Inner: 2.85, LobeRadius: 0.250, RootRadius: 0.838},
	25: {Outer: 4.50, Inner: 3.25, LobeRadius: 0.320, RootRadius: 0.965},
	30: {Outer: 5.60, Inner: 4.05, LobeRadius: 0.310, RootRadius: 1.168},
	40: {Outer: 6.75, Inner: 4.85, LobeRadius: 0.380, RootRadius: 1.397},
	45: {Outer: 7.93, Inner: 5.64, LobeRadius: 0.450, RootRadius: 1.626},
	50: {Outer: 8.95, Inner: 6.45, LobeRadius: 0.600, RootRadius: 2.032},
	55: {Outer: 11.35, Inner: 8.05, LobeRadius: 0.750, RootRadius: 2.286},
	60: {Outer: 13.45, Inner: 9.60, LobeRadius: 0.750, RootRadius: 2.616},
	70: {Outer: 15.70, Inner: 11.20, LobeRadius: 0.900, RootRadius: 3.048},
	80: {Outer: 17.75, Inner: 12.80, LobeRadius: 1.000, RootRadius: 3.505},
}

// LookupTorx returns the drive dimensions for size.
func LookupTorx(size int) (TorxDims, bool) {
	d, ok := torxTable[size]
	return d, ok
}
